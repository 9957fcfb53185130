package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/relief/internal/client/archive"
	"github.com/dmitrijs2005/relief/internal/client/catalog"
	"github.com/dmitrijs2005/relief/internal/client/chat"
	"github.com/dmitrijs2005/relief/internal/client/config"
	"github.com/dmitrijs2005/relief/internal/client/i18n"
	"github.com/dmitrijs2005/relief/internal/client/mailer"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/netstatus"
	"github.com/dmitrijs2005/relief/internal/client/services"
	"github.com/dmitrijs2005/relief/internal/client/store"
	"github.com/dmitrijs2005/relief/internal/clock"
	"github.com/dmitrijs2005/relief/internal/dbx"
	"github.com/dmitrijs2005/relief/internal/logging"
)

// forgetter wipes durable keys; *store.Store satisfies it.
type forgetter interface {
	Forget(ctx context.Context, keys ...string) error
}

type App struct {
	content    services.ContentService
	auth       services.AuthService
	booking    services.BookingService
	assistant  services.AssistantService
	translator *i18n.Translator

	// Exactly one of static and watcher is set.
	static  *netstatus.Static
	watcher *netstatus.Watcher

	store   forgetter
	closers []func() error

	lang   models.Language
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

const httpTimeout = 15 * time.Second

// NewApp opens durable storage and wires every service from c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	st, err := store.Open(ctx, dbx.Dialect(c.StorageDriver), c.StorageDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "driver", c.StorageDriver, "err", err)
		return nil, err
	}

	a := &App{
		store:   st,
		closers: []func() error{st.Close},
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	httpClient := &http.Client{Timeout: httpTimeout}

	var signal netstatus.Signal
	if c.Offline {
		a.static = netstatus.NewStatic(false)
		signal = a.static
	} else {
		prober, err := a.newProber(c, httpClient)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.watcher = netstatus.NewWatcher(prober, c.OnlineCheckInterval, false, logger.With("component", "netstatus"))
		signal = a.watcher
	}

	a.content = services.NewContentService(st.KV, signal, catalog.Bundled, logger.With("component", "content"))
	a.translator = i18n.NewTranslator(a.content)

	a.auth = services.NewAuthService(st.KV, services.AuthOptions{
		Logger:        logger.With("component", "auth"),
		AuthLatency:   c.AuthLatency,
		UpdateLatency: c.UpdateLatency,
		ResetTTL:      c.ResetTokenTTL,
		ResetSecret:   []byte(c.ResetTokenSecret),
	})

	m := mailer.NewEmailJSMailer(mailer.Config{
		Endpoint:   c.EmailJSEndpoint,
		ServiceID:  c.EmailJSServiceID,
		TemplateID: c.EmailJSTemplateID,
		PublicKey:  c.EmailJSPublicKey,
		PrivateKey: c.EmailJSPrivateKey,
	}, httpClient)
	a.booking = services.NewBookingService(m, a.newArchiver(ctx, c), clock.SystemClock{}, logger.With("component", "booking"))

	gemini := chat.NewGeminiClient(c.GeminiBaseURL, c.GeminiModel, c.GeminiAPIKey, httpClient)
	a.assistant = services.NewAssistantService(a.content, a.translator, gemini, logger.With("component", "assistant"))

	if c.Language != "" {
		if a.lang, err = i18n.ParseLanguage(c.Language); err != nil {
			_ = a.Close()
			return nil, err
		}
	} else {
		a.lang = i18n.MatchLanguage(os.Getenv("LANG"))
	}

	return a, nil
}

func (a *App) newProber(c *config.Config, httpClient *http.Client) (netstatus.Prober, error) {
	if c.ProbeMode == config.ProbeGRPC {
		p, err := netstatus.NewGRPCHealthProber(c.ProbeTarget, "")
		if err != nil {
			return nil, fmt.Errorf("grpc health prober: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		return p, nil
	}
	return &netstatus.HTTPProber{URL: c.ProbeURL, Client: httpClient}, nil
}

// newArchiver returns an S3 archiver when a bucket is configured. A broken
// archive setup only disables archiving.
func (a *App) newArchiver(ctx context.Context, c *config.Config) services.Archiver {
	if c.S3Bucket == "" {
		return archive.Nop{}
	}
	s3a, err := archive.NewS3Archiver(ctx, archive.Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	})
	if err != nil {
		a.logger.Warn(ctx, "submission archive disabled", "err", err)
		return archive.Nop{}
	}
	return s3a
}

// Start settles the initial connectivity state and publishes the first
// content bundle before restoring the session, then starts the background
// watchers. The returned channel closes when the content watcher has stopped.
func (a *App) Start(ctx context.Context) <-chan struct{} {
	if a.watcher != nil {
		a.watcher.Check(ctx)
	}
	a.content.Load(ctx)

	if _, err := a.auth.Initialize(ctx); err != nil {
		a.logger.Warn(ctx, "session restore failed", "err", err)
	}

	done := a.content.Watch(ctx)
	if a.watcher != nil {
		go a.watcher.Run(ctx)
	}
	return done
}

// Run starts the app and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := a.Start(ctx)
	defer func() {
		cancel()
		<-done
	}()

	fmt.Fprintln(a.out, a.t("welcome.title"))
	if u := a.auth.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, "Logged in as %s <%s>\n", u.Name, u.Email)
	}
	fmt.Fprintln(a.out, "Type 'help' for commands.")

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases storage and prober connections.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUser() != nil
}

func (a *App) t(key string) string {
	return a.translator.T(a.lang, key, nil)
}

func (a *App) tr(key string, replacements map[string]string) string {
	return a.translator.T(a.lang, key, replacements)
}

func (a *App) getStatus() string {
	s := ""
	if u := a.auth.CurrentUser(); u != nil {
		s = u.Name + " "
	}
	s += a.t("status." + string(a.content.State().Connectivity))
	return fmt.Sprintf("(%s %s)", s, a.lang)
}
