package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
	"github.com/evrecharge/evrecharge-api/pkg/config"
)

var _ ports.Notifier = (*Service)(nil)

// MockProvider is a mock email provider for testing
type MockProvider struct {
	SentEmails []MockEmail
	ShouldFail bool
	FailError  error
}

type MockEmail struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

func (m *MockProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	if m.ShouldFail {
		if m.FailError != nil {
			return m.FailError
		}
		return errors.New("mock send failed")
	}

	m.SentEmails = append(m.SentEmails, MockEmail{
		To:      to,
		Subject: subject,
		Body:    body,
		IsHTML:  isHTML,
	})
	return nil
}

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testReservation() *domain.Reservation {
	start := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)
	return &domain.Reservation{
		ID:        "res-1",
		UserID:    "user-123",
		StationID: "1",
		Status:    domain.ReservationStatusPending,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Duration:  60,
	}
}

func TestReservationCreated_Success(t *testing.T) {
	// Arrange
	mockProvider := &MockProvider{}
	service := newService(mockProvider, "http://localhost:3000", newTestLogger())
	user := &domain.User{ID: "user-123", Name: "Jane Doe", Email: "jane@example.com"}
	station := &domain.Station{ID: "1", Name: "Downtown Charging Hub", Address: "123 Main St, San Francisco, CA"}

	// Act
	err := service.ReservationCreated(context.Background(), user, testReservation(), station)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockProvider.SentEmails) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(mockProvider.SentEmails))
	}
	email := mockProvider.SentEmails[0]
	if email.To != "jane@example.com" {
		t.Errorf("expected to 'jane@example.com', got '%s'", email.To)
	}
	if !email.IsHTML {
		t.Error("expected HTML email, got plain text")
	}
	for _, want := range []string{"Jane Doe", "Downtown Charging Hub", "123 Main St", "res-1", "60 min", "http://localhost:3000/reservations/res-1"} {
		if !strings.Contains(email.Body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestReservationCreated_WithoutStationUsesID(t *testing.T) {
	mockProvider := &MockProvider{}
	service := newService(mockProvider, "", newTestLogger())
	user := &domain.User{Name: "Jane", Email: "jane@example.com"}

	err := service.ReservationCreated(context.Background(), user, testReservation(), nil)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(mockProvider.SentEmails[0].Body, "Address") {
		t.Error("expected address row to be omitted")
	}
}

func TestReservationCancelled_IncludesReason(t *testing.T) {
	mockProvider := &MockProvider{}
	service := newService(mockProvider, "", newTestLogger())
	r := testReservation()
	r.CancellationReason = "plans changed"

	err := service.ReservationCancelled(context.Background(), &domain.User{Name: "Jane", Email: "jane@example.com"}, r)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	email := mockProvider.SentEmails[0]
	if email.Subject != "Reservation cancelled" {
		t.Errorf("unexpected subject %q", email.Subject)
	}
	if !strings.Contains(email.Body, "plans changed") {
		t.Error("expected body to contain the cancellation reason")
	}
}

func TestSend_ProviderFailure(t *testing.T) {
	// Arrange
	mockProvider := &MockProvider{
		ShouldFail: true,
		FailError:  errors.New("SMTP connection failed"),
	}
	service := newService(mockProvider, "", newTestLogger())

	// Act
	err := service.ReservationCancelled(context.Background(), &domain.User{Email: "jane@example.com"}, testReservation())

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "SMTP connection failed") {
		t.Errorf("expected error to contain 'SMTP connection failed', got '%s'", err.Error())
	}
}

func TestNewService_Providers(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EmailConfig
		wantErr bool
	}{
		{name: "log", cfg: config.EmailConfig{Provider: "log"}},
		{name: "empty defaults to log", cfg: config.EmailConfig{}},
		{name: "smtp", cfg: config.EmailConfig{Provider: "smtp", SMTP: config.SMTPConfig{Host: "localhost", Port: 1025}}},
		{name: "sendgrid", cfg: config.EmailConfig{Provider: "sendgrid", APIKey: "SG.test"}},
		{name: "sendgrid without key", cfg: config.EmailConfig{Provider: "sendgrid"}, wantErr: true},
		{name: "unknown", cfg: config.EmailConfig{Provider: "pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(tt.cfg, newTestLogger())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.provider == nil {
				t.Fatal("expected a provider")
			}
		})
	}
}

func TestLogProvider_Send(t *testing.T) {
	service := newService(NewLogProvider(zap.NewNop()), "", zap.NewNop())

	err := service.ReservationCancelled(context.Background(), &domain.User{Email: "jane@example.com"}, testReservation())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
