package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/services"
)

var errUnknownService = errors.New("unknown service")

// prompt is one question of a form. An empty answer keeps def.
type prompt struct {
	label string
	def   string
	dst   *string
}

func (a *App) askAll(ps []prompt) error {
	for _, p := range ps {
		v, err := a.askDefault(p.label, p.def)
		if err != nil {
			return err
		}
		*p.dst = v
	}
	return nil
}

func (a *App) userDefaults() (name, email string) {
	if u := a.auth.CurrentUser(); u != nil {
		return u.Name, u.Email
	}
	return "", ""
}

func (a *App) submit(ctx context.Context, s models.Submission, successTitle, successMessage string) error {
	if err := a.booking.Submit(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.t(successTitle))
	fmt.Fprintln(a.out, a.t(successMessage))
	return nil
}

// Book collects a booking request for the service named in args (or asked
// for interactively) and prints payment details after a successful send.
func (a *App) Book(ctx context.Context, args []string) error {
	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		_ = a.Services(ctx)
		var err error
		if id, err = a.ask("Service id"); err != nil {
			return err
		}
	}
	if _, ok := a.bundle(ctx).Service(id); !ok {
		return fmt.Errorf("%w: %q", errUnknownService, id)
	}
	serviceTitle := a.translator.T(models.LanguageEnglish, "service."+id+".name", nil)

	fmt.Fprintln(a.out, a.t("bookingModal.title"))
	fmt.Fprintln(a.out, a.tr("bookingModal.subtitle", map[string]string{"service": a.t("service." + id + ".name")}))

	s := models.Submission{FormType: models.FormBooking, ServiceTitle: serviceTitle}
	name, email := a.userDefaults()
	if err := a.askAll([]prompt{
		{a.t("bookingModal.form.name"), name, &s.Name},
		{a.t("bookingModal.form.email"), email, &s.Email},
		{a.t("bookingModal.form.phone"), "", &s.Phone},
		{a.t("bookingModal.form.date"), "", &s.Date},
		{a.t("bookingModal.form.time"), "", &s.Time},
	}); err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, a.t("bookingModal.form.notes"), a.out)
	if err != nil {
		return err
	}
	s.Notes = notes
	if s.SendCopy, err = GetYesNo(a.reader, a.t("bookingModal.form.sendEmailCopy"), a.out); err != nil {
		return err
	}

	if err := a.submit(ctx, s, "bookingModal.successTitle", "bookingModal.successMessage"); err != nil {
		return err
	}
	a.printPayment()
	return nil
}

func (a *App) printPayment() {
	p := "bookingModal.payment."
	fmt.Fprintln(a.out, a.t(p+"title"))
	fmt.Fprintf(a.out, "  %s / %s\n", a.t(p+"priceEtb"), a.t(p+"priceUsd"))
	fmt.Fprintln(a.out, a.t(p+"methods"))
	fmt.Fprintf(a.out, "  %s: %s\n", a.t(p+"telebirr"), a.t(p+"telebirrNumber"))
	fmt.Fprintf(a.out, "  %s (%s)\n", a.t(p+"bank"), a.t(p+"bankAccountName"))
	fmt.Fprintf(a.out, "    %s: %s, SWIFT %s\n", a.t(p+"cbe"), a.t(p+"cbeAccount"), a.t(p+"cbeSwift"))
	fmt.Fprintf(a.out, "    %s: %s, SWIFT %s\n", a.t(p+"abyssinia"), a.t(p+"abyssiniaAccount"), a.t(p+"abyssiniaSwift"))
}

// chooseAccommodation accepts a list number or a type key; anything else is
// passed through for validation to reject.
func (a *App) chooseAccommodation() (string, error) {
	labels := make([]string, len(models.AccommodationTypes))
	for i, k := range models.AccommodationTypes {
		labels[i] = fmt.Sprintf("%d) %s", i+1, a.t("accommodationModal.types."+k))
	}
	s, err := a.ask(a.t("accommodationModal.form.accommodationType") + " " + strings.Join(labels, "  "))
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(models.AccommodationTypes) {
		return models.AccommodationTypes[n-1], nil
	}
	return s, nil
}

func (a *App) Accommodation(ctx context.Context) error {
	fmt.Fprintln(a.out, a.t("accommodationModal.title"))
	fmt.Fprintln(a.out, a.t("accommodationModal.subtitle"))

	s := models.Submission{FormType: models.FormAccommodation}
	name, email := a.userDefaults()
	if err := a.askAll([]prompt{
		{a.t("accommodationModal.form.name"), name, &s.Name},
		{a.t("accommodationModal.form.email"), email, &s.Email},
	}); err != nil {
		return err
	}

	var err error
	if s.AccommodationType, err = a.chooseAccommodation(); err != nil {
		return err
	}
	if err := a.askAll([]prompt{
		{a.t("accommodationModal.form.duration"), "", &s.Duration},
		{a.t("accommodationModal.form.guests"), "1", &s.Guests},
		{a.t("accommodationModal.form.area"), "", &s.Area},
		{a.t("accommodationModal.form.budget"), "", &s.Budget},
	}); err != nil {
		return err
	}
	if s.Notes, err = GetMultiline(a.reader, a.t("accommodationModal.form.notes"), a.out); err != nil {
		return err
	}

	return a.submit(ctx, s, "accommodationModal.successTitle", "accommodationModal.successMessage")
}

func (a *App) Contact(ctx context.Context) error {
	fmt.Fprintln(a.out, a.t("contactModal.title"))
	fmt.Fprintln(a.out, a.t("contactModal.description"))
	fmt.Fprintf(a.out, "  %s  %s\n", a.t("contactModal.email"), a.t("contactModal.phone"))

	s := models.Submission{FormType: models.FormContact}
	name, email := a.userDefaults()
	if err := a.askAll([]prompt{
		{a.t("bookingModal.form.name"), name, &s.Name},
		{a.t("bookingModal.form.email"), email, &s.Email},
	}); err != nil {
		return err
	}
	var err error
	if s.Notes, err = GetMultiline(a.reader, a.t("bookingModal.form.notes"), a.out); err != nil {
		return err
	}

	return a.submit(ctx, s, "bookingModal.successTitle", "bookingModal.successMessage")
}

// validationMessages renders each rejected field in the current language,
// sorted by field name.
func (a *App) validationMessages(ve *services.ValidationError) string {
	names := make([]string, 0, len(ve.Fields))
	for k := range ve.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, k := range names {
		lines[i] = "  " + a.t(ve.Fields[k])
	}
	return strings.Join(lines, "\n")
}
