// Package mailer delivers form submissions through the EmailJS REST API.
package mailer

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/relief/internal/netx"
)

const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Message is the flat field set handed to the email template.
type Message struct {
	Name         string
	Email        string
	Body         string
	FormType     string
	ServiceTitle string
	SendCopy     bool
}

// Params renders m as EmailJS template parameters.
func (m Message) Params() map[string]string {
	p := map[string]string{
		"name":      m.Name,
		"email":     m.Email,
		"message":   m.Body,
		"form_type": m.FormType,
	}
	if m.ServiceTitle != "" {
		p["service_title"] = m.ServiceTitle
	}
	if m.SendCopy {
		p["send_copy"] = strconv.FormatBool(m.SendCopy)
	}
	return p
}

type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

var ErrNotConfigured = errors.New("email delivery is not configured")

type EmailJSMailer struct {
	cfg    Config
	client *http.Client
}

func NewEmailJSMailer(cfg Config, client *http.Client) *EmailJSMailer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &EmailJSMailer{cfg: cfg, client: client}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (m *EmailJSMailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.ServiceID == "" || m.cfg.TemplateID == "" || m.cfg.PublicKey == "" {
		return ErrNotConfigured
	}

	req := sendRequest{
		ServiceID:      m.cfg.ServiceID,
		TemplateID:     m.cfg.TemplateID,
		UserID:         m.cfg.PublicKey,
		AccessToken:    m.cfg.PrivateKey,
		TemplateParams: msg.Params(),
	}
	return netx.PostJSON(ctx, m.client, m.cfg.Endpoint, nil, req, nil)
}
