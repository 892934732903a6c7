package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/pkg/config"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

const timeLayout = "Mon, 02 Jan 2006 15:04 MST"

// Service renders reservation emails and hands them to a Provider.
// It implements ports.Notifier.
type Service struct {
	baseURL   string
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

// NewService creates a new email service for the configured provider
func NewService(cfg config.EmailConfig, log *zap.Logger) (*Service, error) {
	var provider Provider
	switch cfg.Provider {
	case "sendgrid":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		provider = NewSendGridProvider(cfg.APIKey, cfg.From, cfg.FromName)
	case "smtp":
		provider = NewSMTPProvider(cfg.SMTP, cfg.From, cfg.FromName)
	case "log", "":
		provider = NewLogProvider(log)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}

	return newService(provider, cfg.BaseURL, log), nil
}

func newService(provider Provider, baseURL string, log *zap.Logger) *Service {
	s := &Service{
		baseURL:   baseURL,
		provider:  provider,
		templates: make(map[string]*template.Template),
		log:       log,
	}
	s.templates["reservation_created"] = template.Must(template.New("reservation_created").Parse(reservationCreatedTemplate))
	s.templates["reservation_cancelled"] = template.Must(template.New("reservation_cancelled").Parse(reservationCancelledTemplate))
	return s
}

// sendTemplate renders templateName and sends it as HTML
func (s *Service) sendTemplate(ctx context.Context, to, subject, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	data["BaseURL"] = s.baseURL
	data["Subject"] = subject

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	s.log.Info("Sending email",
		zap.String("to", to),
		zap.String("template", templateName),
	)

	if err := s.provider.Send(ctx, to, subject, buf.String(), true); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// ReservationCreated confirms a new reservation to its owner
func (s *Service) ReservationCreated(ctx context.Context, user *domain.User, r *domain.Reservation, station *domain.Station) error {
	stationName, address := r.StationID, ""
	if station != nil {
		stationName, address = station.Name, station.Address
	}

	data := map[string]interface{}{
		"UserName":      user.Name,
		"ReservationID": r.ID,
		"StationName":   stationName,
		"Address":       address,
		"StartTime":     r.StartTime.Format(timeLayout),
		"EndTime":       r.EndTime.Format(timeLayout),
		"Duration":      r.Duration,
	}
	return s.sendTemplate(ctx, user.Email, "Your charging slot is reserved", "reservation_created", data)
}

// ReservationCancelled tells the owner a reservation was cancelled
func (s *Service) ReservationCancelled(ctx context.Context, user *domain.User, r *domain.Reservation) error {
	data := map[string]interface{}{
		"UserName":      user.Name,
		"ReservationID": r.ID,
		"StartTime":     r.StartTime.Format(timeLayout),
		"Reason":        r.CancellationReason,
	}
	return s.sendTemplate(ctx, user.Email, "Reservation cancelled", "reservation_cancelled", data)
}

// LogProvider writes emails to the logger instead of delivering them
type LogProvider struct {
	log *zap.Logger
}

func NewLogProvider(log *zap.Logger) *LogProvider {
	return &LogProvider{log: log}
}

func (p *LogProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	p.log.Info("Email (log provider)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
		zap.Bool("html", isHTML),
	)
	return nil
}
