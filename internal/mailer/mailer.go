// Package mailer sends transactional mail through an EmailJS-compatible
// endpoint. Delivery is best effort: callers get a boolean, never an error,
// and the flows that use it must work when mail is down.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
)

// Mailer posts template sends to the configured endpoint.
type Mailer struct {
	client     *http.Client
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	logger     *zap.Logger
}

// New builds a mailer from the email configuration.
func New(cfg config.EmailConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailer{
		client:     &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		publicKey:  cfg.PublicKey,
		logger:     logger,
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendVerificationCode mails a registration code to the address.
func (m *Mailer) SendVerificationCode(ctx context.Context, email, code string) bool {
	return m.send(ctx, map[string]string{
		"to_email": email,
		"subject":  "IT-Ustoz: tasdiqlash kodi",
		"message":  "Tasdiqlash kodingiz: " + code,
	})
}

// SendPasswordRecovery mails the account credentials to the address.
func (m *Mailer) SendPasswordRecovery(ctx context.Context, email, username, password string) bool {
	return m.send(ctx, map[string]string{
		"to_email": email,
		"subject":  "IT-Ustoz: parolni tiklash",
		"message":  "Login: " + username + "\nParol: " + password,
	})
}

func (m *Mailer) send(ctx context.Context, params map[string]string) bool {
	if m.endpoint == "" || m.serviceID == "" {
		m.logger.Debug("mailer not configured, skipping send")
		return false
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:      m.serviceID,
		TemplateID:     m.templateID,
		UserID:         m.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		m.logger.Warn("encode mail payload", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Warn("mail send failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.logger.Warn("mail send rejected", zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}
