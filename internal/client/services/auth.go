// This file defines the session/auth manager: a single identity per device,
// persisted in durable storage, plus the password-reset ticket flow.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/relief/internal/client/auth"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/repositories/kv"
	"github.com/dmitrijs2005/relief/internal/clock"
	"github.com/dmitrijs2005/relief/internal/common"
	"github.com/dmitrijs2005/relief/internal/logging"
)

// MinPasswordLength applies to passwords chosen through the reset flow.
const MinPasswordLength = 8

// AuthService manages the device session.
//
// Contract:
//   - Initialize: restore the persisted session, clearing a corrupt record.
//   - Login/Signup: create the session after simulated latency.
//   - UpdateUser: merge a patch into the active session (ErrNotAuthenticated without one).
//   - Logout: drop the session; idempotent.
//   - SendPasswordResetLink/ResetPassword: single-use, time-limited reset tickets.
//
// Storage failures are logged and never returned. Blocking methods honor ctx.
type AuthService interface {
	Initialize(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Signup(ctx context.Context, name, email string, password []byte) (*models.User, error)
	UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser() *models.User
	SendPasswordResetLink(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, newPassword []byte) error
}

// AuthOptions configures an AuthService. Zero values are replaced by
// defaults, except latencies, where zero means no delay.
type AuthOptions struct {
	Clock         clock.Clock
	Policy        CredentialPolicy
	Logger        logging.Logger
	AuthLatency   time.Duration
	UpdateLatency time.Duration
	ResetTTL      time.Duration
	ResetSecret   []byte
}

const DefaultResetTTL = 15 * time.Minute

type authService struct {
	repo   kv.Repository
	clock  clock.Clock
	policy CredentialPolicy
	logger logging.Logger

	authLatency   time.Duration
	updateLatency time.Duration
	resetTTL      time.Duration
	resetSecret   []byte

	// sessionMu and ticketMu serialize read-modify-write of the two durable
	// records, latency included.
	sessionMu sync.Mutex
	ticketMu  sync.Mutex

	userMu sync.RWMutex
	user   *models.User
}

// NewAuthService constructs an AuthService persisting into repo.
func NewAuthService(repo kv.Repository, opts AuthOptions) AuthService {
	a := &authService{
		repo:          repo,
		clock:         opts.Clock,
		policy:        opts.Policy,
		logger:        opts.Logger,
		authLatency:   opts.AuthLatency,
		updateLatency: opts.UpdateLatency,
		resetTTL:      opts.ResetTTL,
		resetSecret:   opts.ResetSecret,
	}
	if a.clock == nil {
		a.clock = clock.SystemClock{}
	}
	if a.policy == nil {
		a.policy = NewDemoCredentialPolicy()
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}
	if a.resetTTL <= 0 {
		a.resetTTL = DefaultResetTTL
	}
	if len(a.resetSecret) == 0 {
		a.resetSecret = common.GenerateRandByteArray(32)
	}
	return a
}

func (a *authService) CurrentUser() *models.User {
	a.userMu.RLock()
	defer a.userMu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *authService) setUser(u *models.User) {
	a.userMu.Lock()
	defer a.userMu.Unlock()
	if u == nil {
		a.user = nil
		return
	}
	cp := *u
	a.user = &cp
}

// readSession returns nil for a missing, unreadable or invalid record.
func (a *authService) readSession(ctx context.Context) (*models.User, bool) {
	raw, err := a.repo.Get(ctx, KeyUser)
	if err != nil {
		a.logger.Warn(ctx, "session read failed", "error", err)
		return nil, false
	}
	if raw == nil {
		return nil, true
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || !u.Valid() {
		return nil, false
	}
	return &u, true
}

func (a *authService) persistSession(ctx context.Context, u *models.User) {
	raw, err := json.Marshal(u)
	if err == nil {
		err = a.repo.Set(ctx, KeyUser, raw)
	}
	if err != nil {
		a.logger.Warn(ctx, "session write failed", "error", err)
	}
}

func (a *authService) clearSession(ctx context.Context) {
	if err := a.repo.Delete(ctx, KeyUser); err != nil {
		a.logger.Warn(ctx, "session delete failed", "error", err)
	}
}

// Initialize loads the persisted session. An absent or corrupt record yields
// nil and is removed.
func (a *authService) Initialize(ctx context.Context) (*models.User, error) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	u, ok := a.readSession(ctx)
	if u == nil {
		if !ok {
			a.logger.Warn(ctx, "discarding unreadable session record")
		}
		a.clearSession(ctx)
		a.setUser(nil)
		return nil, nil
	}

	a.setUser(u)
	return a.CurrentUser(), nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	if err := simulateLatency(ctx, a.authLatency); err != nil {
		return nil, err
	}

	stored, _ := a.readSession(ctx)
	u, ok := a.policy.Authenticate(email, password, stored)
	if !ok {
		a.logger.Info(ctx, "login rejected", "email", email)
		return nil, common.ErrInvalidCredentials
	}

	a.persistSession(ctx, u)
	a.setUser(u)
	a.logger.Info(ctx, "logged in", "email", u.Email)
	return a.CurrentUser(), nil
}

// Signup always succeeds. A blank name falls back to the local part of the
// email so the session stays displayable.
func (a *authService) Signup(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	if err := simulateLatency(ctx, a.authLatency); err != nil {
		return nil, err
	}

	u := &models.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if u.Name == "" {
		u.Name = common.EmailLocalPart(u.Email)
	}

	a.persistSession(ctx, u)
	a.setUser(u)
	a.logger.Info(ctx, "signed up", "email", u.Email)
	return a.CurrentUser(), nil
}

func (a *authService) UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	if err := simulateLatency(ctx, a.updateLatency); err != nil {
		return nil, err
	}

	current := a.CurrentUser()
	if current == nil {
		return nil, common.ErrNotAuthenticated
	}

	updated := patch.Apply(*current)
	a.persistSession(ctx, &updated)
	a.setUser(&updated)
	return a.CurrentUser(), nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	a.setUser(nil)
	a.clearSession(ctx)
	return nil
}

// SendPasswordResetLink never reveals whether email belongs to a known user.
// The returned token stands in for the link that would be mailed.
func (a *authService) SendPasswordResetLink(ctx context.Context, email string) (string, error) {
	a.ticketMu.Lock()
	defer a.ticketMu.Unlock()

	if err := simulateLatency(ctx, a.authLatency); err != nil {
		return "", err
	}

	now := a.clock.Now()
	token, err := auth.GenerateResetToken(email, a.resetSecret, now, a.resetTTL)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	ticket := models.ResetTicket{Email: email, Token: token, ExpiresAt: now.Add(a.resetTTL)}
	raw, err := json.Marshal(ticket)
	if err == nil {
		err = a.repo.Set(ctx, KeyResetToken, raw)
	}
	if err != nil {
		a.logger.Warn(ctx, "reset ticket write failed", "error", err)
	}

	a.logger.Debug(ctx, "password reset link issued", "email", email, "expires_at", ticket.ExpiresAt)
	return token, nil
}

// ResetPassword consumes the stored ticket. Any failed check also deletes the
// ticket, so a token can be presented at most once.
func (a *authService) ResetPassword(ctx context.Context, token string, newPassword []byte) error {
	defer common.WipeByteArray(newPassword)

	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}

	a.ticketMu.Lock()
	defer a.ticketMu.Unlock()

	if err := simulateLatency(ctx, a.authLatency); err != nil {
		return err
	}

	raw, err := a.repo.Get(ctx, KeyResetToken)
	if err != nil {
		a.logger.Warn(ctx, "reset ticket read failed", "error", err)
		return common.ErrInvalidOrExpiredToken
	}
	if raw == nil {
		return common.ErrInvalidOrExpiredToken
	}

	// every path below consumes the ticket
	defer func() {
		if err := a.repo.Delete(ctx, KeyResetToken); err != nil {
			a.logger.Warn(ctx, "reset ticket delete failed", "error", err)
		}
	}()

	var ticket models.ResetTicket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return common.ErrInvalidOrExpiredToken
	}

	now := a.clock.Now()
	if !ticket.Valid(token, now) {
		return common.ErrInvalidOrExpiredToken
	}

	claims, err := auth.ParseResetToken(token, a.resetSecret, now)
	if err != nil {
		return err
	}
	if claims.Email != ticket.Email {
		return common.ErrInvalidOrExpiredToken
	}

	a.logger.Info(ctx, "password reset accepted", "email", ticket.Email)
	return nil
}
