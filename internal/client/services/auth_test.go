package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/clock"
	"github.com/dmitrijs2005/relief/internal/common"
	"github.com/dmitrijs2005/relief/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)

type authFixture struct {
	repo  *memRepo
	clock *clock.Manual
	svc   AuthService
	opts  AuthOptions
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{repo: newMemRepo(), clock: clock.NewManual(start)}
	f.opts = AuthOptions{
		Clock:       f.clock,
		Policy:      NewDemoCredentialPolicy(),
		Logger:      logging.Discard(),
		ResetSecret: []byte("test-secret"),
	}
	f.svc = NewAuthService(f.repo, f.opts)
	return f
}

// restart simulates a new process over the same storage.
func (f *authFixture) restart() AuthService {
	return NewAuthService(f.repo, f.opts)
}

func strptr(s string) *string { return &s }

func TestLogin_DemoAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, err := f.svc.Login(ctx, "test@example.com", []byte("password"))
	require.NoError(t, err)
	assert.Equal(t, &models.User{Name: "Test User", Email: "test@example.com"}, u)
	assert.Equal(t, u, f.svc.CurrentUser())

	restored, err := f.restart().Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, restored)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), "nobody@x.com", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Nil(t, f.svc.CurrentUser())

	_, err = f.svc.Login(context.Background(), "test@example.com", []byte("Password"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_StoredSessionEmailMatch(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "Selam", "selam@example.com", []byte("whatever"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx))

	// logout removed the stored session, so the shortcut no longer applies
	_, err = f.svc.Login(ctx, "selam@example.com", []byte("x"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.svc.Signup(ctx, "Selam", "selam@example.com", []byte("whatever"))
	require.NoError(t, err)

	svc := f.restart()
	u, err := svc.Login(ctx, "selam@example.com", []byte("anything"))
	require.NoError(t, err)
	assert.Equal(t, "Selam", u.Name)

	_, err = svc.Login(ctx, "other@example.com", []byte("anything"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestSignup(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, err := f.svc.Signup(ctx, "  Dawit ", "dawit@example.com", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, &models.User{Name: "Dawit", Email: "dawit@example.com"}, u)

	u, err = f.svc.Signup(ctx, "", "hanna@example.com", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "hanna", u.Name, "blank name falls back to email local part")

	restored, err := f.restart().Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, restored, "signup replaces the stored session")
}

func TestUpdateUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateUser(ctx, models.UserPatch{Name: strptr("New Name")})
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = f.svc.Login(ctx, "test@example.com", []byte("password"))
	require.NoError(t, err)

	u, err := f.svc.UpdateUser(ctx, models.UserPatch{Name: strptr("New Name")})
	require.NoError(t, err)
	assert.Equal(t, &models.User{Name: "New Name", Email: "test@example.com"}, u)

	restored, err := f.restart().Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, restored)
}

func TestUpdateUser_ConcurrentUpdatesAreNotLost(t *testing.T) {
	f := newAuthFixture(t)
	f.opts.UpdateLatency = time.Millisecond
	svc := f.restart()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Original", "original@example.com", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := svc.UpdateUser(ctx, models.UserPatch{Name: strptr(fmt.Sprintf("name-%d", i))})
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := svc.UpdateUser(ctx, models.UserPatch{Email: strptr(fmt.Sprintf("mail-%d@example.com", i))})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	u := svc.CurrentUser()
	assert.True(t, strings.HasPrefix(u.Name, "name-"), u.Name)
	assert.True(t, strings.HasPrefix(u.Email, "mail-"), u.Email)

	restored, err := f.restart().Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, restored)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "test@example.com", []byte("password"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx))
	require.NoError(t, f.svc.Logout(ctx))
	assert.Nil(t, f.svc.CurrentUser())
	assert.False(t, f.repo.has(KeyUser))

	u, err := f.restart().Initialize(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestInitialize_CorruptRecordIsCleared(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":   "{oops",
		"blank name": `{"name":"","email":"a@b.c"}`,
		"wrong type": `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.repo.put(KeyUser, raw)

			u, err := f.svc.Initialize(context.Background())
			require.NoError(t, err)
			assert.Nil(t, u)
			assert.False(t, f.repo.has(KeyUser))
		})
	}
}

func TestPasswordReset_SingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, f.repo.has(KeyResetToken))

	require.NoError(t, f.svc.ResetPassword(ctx, token, []byte("newpass123")))
	assert.False(t, f.repo.has(KeyResetToken))

	err = f.svc.ResetPassword(ctx, token, []byte("newpass123"))
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)
}

func TestPasswordReset_Expiry(t *testing.T) {
	ctx := context.Background()

	t.Run("boundary is inclusive", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
		require.NoError(t, err)

		f.clock.Advance(15 * time.Minute)
		assert.NoError(t, f.svc.ResetPassword(ctx, token, []byte("newpass123")))
	})

	t.Run("after window", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
		require.NoError(t, err)

		f.clock.Advance(15*time.Minute + time.Nanosecond)
		err = f.svc.ResetPassword(ctx, token, []byte("newpass123"))
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)
		assert.False(t, f.repo.has(KeyResetToken), "expired ticket is consumed")
	})
}

func TestPasswordReset_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("no ticket", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.ResetPassword(ctx, "anything", []byte("newpass123"))
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)
	})

	t.Run("wrong token consumes ticket", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
		require.NoError(t, err)

		err = f.svc.ResetPassword(ctx, token+"x", []byte("newpass123"))
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)

		err = f.svc.ResetPassword(ctx, token, []byte("newpass123"))
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)
	})

	t.Run("new link overwrites old ticket", func(t *testing.T) {
		f := newAuthFixture(t)
		first, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
		require.NoError(t, err)
		second, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		assert.NoError(t, f.svc.ResetPassword(ctx, second, []byte("newpass123")))
	})

	t.Run("short password keeps ticket", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
		require.NoError(t, err)

		pw := []byte("short")
		err = f.svc.ResetPassword(ctx, token, pw)
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.Equal(t, make([]byte, len(pw)), pw, "password is wiped")
		assert.True(t, f.repo.has(KeyResetToken))

		assert.NoError(t, f.svc.ResetPassword(ctx, token, []byte("longenough")))
	})

	t.Run("token from another secret", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.svc.SendPasswordResetLink(ctx, "a@b.com")
		require.NoError(t, err)

		f.opts.ResetSecret = []byte("rotated")
		err = f.restart().ResetPassword(ctx, token, []byte("newpass123"))
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)
	})
}

func TestAuth_StorageFailuresAreNotSurfaced(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.setErr = errors.New("quota exceeded")
	f.repo.getErr = errors.New("io error")
	ctx := context.Background()

	u, err := f.svc.Login(ctx, "test@example.com", []byte("password"))
	require.NoError(t, err)
	assert.Equal(t, "Test User", u.Name)

	_, err = f.svc.SendPasswordResetLink(ctx, "a@b.com")
	assert.NoError(t, err)

	u, err = f.svc.Initialize(ctx)
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestAuth_LatencyHonorsContext(t *testing.T) {
	f := newAuthFixture(t)
	f.opts.AuthLatency = time.Hour
	svc := f.restart()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Login(ctx, "test@example.com", []byte("password"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, svc.CurrentUser())
}

func TestDemoCredentialPolicy(t *testing.T) {
	p := NewDemoCredentialPolicy()
	stored := &models.User{Name: "S", Email: "s@example.com"}

	u, ok := p.Authenticate(DemoEmail, []byte("password"), nil)
	require.True(t, ok)
	assert.Equal(t, DemoName, u.Name)

	_, ok = p.Authenticate(DemoEmail, []byte("nope"), nil)
	assert.False(t, ok)

	u, ok = p.Authenticate("s@example.com", []byte("any"), stored)
	require.True(t, ok)
	assert.Equal(t, *stored, *u)
	assert.NotSame(t, stored, u)

	_, ok = p.Authenticate("S@example.com", []byte("any"), stored)
	assert.False(t, ok, "email match is exact")
}
