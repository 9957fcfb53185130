package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/relief/internal/client/i18n"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/services"
)

// bundle returns the published bundle, loading one if the app has not been
// started yet.
func (a *App) bundle(ctx context.Context) *models.ContentBundle {
	if b := a.content.Current(); b != nil {
		return b
	}
	return a.content.Load(ctx)
}

func (a *App) Services(ctx context.Context) error {
	b := a.bundle(ctx)
	fmt.Fprintln(a.out, a.t("services.title"))
	for _, s := range b.Services {
		fmt.Fprintf(a.out, "  %-11s %s (%s, %.1f/5, %d reviews)\n", s.ID, a.t("service."+s.ID+".name"), s.Duration, s.Rating, s.ReviewCount)
		fmt.Fprintf(a.out, "              %s\n", a.t("service."+s.ID+".short"))
	}
	fmt.Fprintf(a.out, "%s: %s / %s\n", a.t("bookingModal.payment.title"), a.t("bookingModal.payment.priceEtb"), a.t("bookingModal.payment.priceUsd"))
	return nil
}

func (a *App) FAQ(ctx context.Context) error {
	b := a.bundle(ctx)
	fmt.Fprintln(a.out, a.t("faq.title"))
	for _, f := range b.FAQs {
		fmt.Fprintf(a.out, "%d. %s\n   %s\n", f.ID, a.t(f.Question), a.t(f.Answer))
	}
	return nil
}

func (a *App) Testimonials(ctx context.Context) error {
	b := a.bundle(ctx)
	fmt.Fprintln(a.out, a.t("testimonials.title"))
	for _, tm := range b.Testimonials {
		fmt.Fprintf(a.out, "  \"%s\"\n    %s\n", a.t(tm.Quote), a.t(tm.Author))
	}
	return nil
}

func (a *App) SetLanguage(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Usage: lang <en|am> (current: %s)\n", a.lang)
		return nil
	}
	lang, err := i18n.ParseLanguage(args[0])
	if err != nil {
		return err
	}
	a.lang = lang
	fmt.Fprintln(a.out, a.t("language."+languageNameKey(lang)))
	return nil
}

func languageNameKey(l models.Language) string {
	if l == models.LanguageAmharic {
		return "amharic"
	}
	return "english"
}

func (a *App) Status(ctx context.Context) error {
	st := a.content.State()
	fmt.Fprintf(a.out, "connectivity: %s\n", a.t("status."+string(st.Connectivity)))
	fmt.Fprintf(a.out, "content:      %s (loads: %d)\n", st.Phase, st.Generation)
	if b := a.content.Current(); b != nil {
		fmt.Fprintf(a.out, "source:       %s\n", a.t("status.source."+string(b.Source)))
	}
	fmt.Fprintf(a.out, "language:     %s\n", a.lang)
	if u := a.auth.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, "user:         %s <%s>\n", u.Name, u.Email)
	}
	return nil
}

// SetOnline toggles the manual connectivity signal. The content watcher
// reloads in the background.
func (a *App) SetOnline(ctx context.Context, online bool) error {
	if a.static == nil {
		fmt.Fprintln(a.out, "Connectivity is probed automatically; start with -offline to toggle it by hand.")
		return nil
	}
	if !a.static.Set(online) {
		fmt.Fprintf(a.out, "Already %s.\n", a.t("status."+string(connectivity(online))))
		return nil
	}
	fmt.Fprintf(a.out, "Switched to %s.\n", a.t("status."+string(connectivity(online))))
	return nil
}

func connectivity(online bool) services.Connectivity {
	if online {
		return services.ConnectivityOnline
	}
	return services.ConnectivityOffline
}

// Forget drops the session, the reset ticket and the content mirror from
// this device.
func (a *App) Forget(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	if err := a.store.Forget(ctx, services.AllKeys...); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Local data cleared.")
	return nil
}
