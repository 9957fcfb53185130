package services

import (
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/common"
	"github.com/dmitrijs2005/relief/internal/cryptox"
)

// CredentialPolicy decides whether a login attempt succeeds. stored is the
// session currently persisted on the device, or nil.
type CredentialPolicy interface {
	Authenticate(email string, password []byte, stored *models.User) (*models.User, bool)
}

const (
	DemoEmail    = "test@example.com"
	DemoName     = "Test User"
	demoPassword = "password"
)

// DemoCredentialPolicy is not real authentication. It accepts:
//
//   - the fixed demo account, whose password is held only as an Argon2
//     verifier;
//   - any email that matches the session already stored on the device,
//     without checking the password.
//
// Replace it before connecting the client to a real account backend.
type DemoCredentialPolicy struct {
	salt     []byte
	verifier []byte
}

func NewDemoCredentialPolicy() *DemoCredentialPolicy {
	salt := common.GenerateRandByteArray(16)
	return &DemoCredentialPolicy{
		salt:     salt,
		verifier: cryptox.MakeVerifier(cryptox.DeriveKey([]byte(demoPassword), salt)),
	}
}

func (p *DemoCredentialPolicy) Authenticate(email string, password []byte, stored *models.User) (*models.User, bool) {
	if email == DemoEmail && cryptox.Verify(password, p.salt, p.verifier) {
		return &models.User{Name: DemoName, Email: email}, true
	}
	if stored != nil && stored.Email == email {
		u := *stored
		return &u, true
	}
	return nil, false
}
