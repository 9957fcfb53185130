package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/services"
	"github.com/dmitrijs2005/relief/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askDefault shows def in brackets and returns it for an empty answer.
func (a *App) askDefault(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	s, err := a.ask(prompt)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// askNewPassword reads a password twice. The caller wipes the result.
func (a *App) askNewPassword(prompt string) ([]byte, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return nil, err
	}
	confirm, err := getPassword(a.t("auth.form.confirmPassword"), a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}

func (a *App) greet(u *models.User) {
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", u.Name, u.Email)
}

// Signup prompts for name, email and a confirmed password and creates the
// session. The password is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	fmt.Fprintln(a.out, a.t("auth.signupTitle"))
	name, err := a.ask(a.t("auth.form.name"))
	if err != nil {
		return err
	}
	email, err := a.ask(a.t("auth.form.email"))
	if err != nil {
		return err
	}
	password, err := a.askNewPassword(a.t("auth.form.password"))
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	a.greet(u)
	return nil
}

// Login prompts for credentials and authenticates through the demo policy.
func (a *App) Login(ctx context.Context) error {
	fmt.Fprintln(a.out, a.t("auth.loginTitle"))
	email, err := a.ask(a.t("auth.form.email"))
	if err != nil {
		return err
	}
	password, err := getPassword(a.t("auth.form.password"), a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.logger.Info(ctx, "login rejected", "email", email)
		return err
	}
	a.greet(u)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.t("auth.logout"))
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		return common.ErrNotAuthenticated
	}
	fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
	return nil
}

// Profile updates the name and email of the active session. Empty answers
// keep the current values.
func (a *App) Profile(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		return common.ErrNotAuthenticated
	}
	fmt.Fprintln(a.out, a.t("auth.myProfile"))

	name, err := a.askDefault(a.t("auth.form.name"), u.Name)
	if err != nil {
		return err
	}
	email, err := a.askDefault(a.t("auth.form.email"), u.Email)
	if err != nil {
		return err
	}

	var patch models.UserPatch
	if name != u.Name {
		patch.Name = &name
	}
	if email != u.Email {
		patch.Email = &email
	}

	updated, err := a.auth.UpdateUser(ctx, patch)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.t("auth.updateSuccess"))
	fmt.Fprintf(a.out, "%s <%s>\n", updated.Name, updated.Email)
	return nil
}

// Forgot issues a reset ticket. There is no mail delivery for reset links,
// so the token is printed.
func (a *App) Forgot(ctx context.Context) error {
	def := ""
	if u := a.auth.CurrentUser(); u != nil {
		def = u.Email
	}
	email, err := a.askDefault(a.t("auth.form.email"), def)
	if err != nil {
		return err
	}

	token, err := a.auth.SendPasswordResetLink(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.t("auth.resetLinkSentTitle"))
	fmt.Fprintln(a.out, a.tr("auth.resetLinkSentDesc", map[string]string{"email": email}))
	fmt.Fprintf(a.out, "Reset token: %s\n", token)
	return nil
}

// Reset consumes a reset ticket. The token may be passed as an argument.
func (a *App) Reset(ctx context.Context, args []string) error {
	fmt.Fprintln(a.out, a.t("auth.resetPasswordTitle"))

	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		if token, err = a.ask("Reset token"); err != nil {
			return err
		}
	}

	password, err := a.askNewPassword(a.t("auth.form.newPassword"))
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) < services.MinPasswordLength {
		return fmt.Errorf("%w: %s", common.ErrValidation, a.t("auth.validation.passwordMinLength"))
	}

	if err := a.auth.ResetPassword(ctx, token, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.t("auth.passwordResetSuccess"))
	return nil
}
