package notification

import (
	"context"
	"testing"

	"leadscore_backend/internal/events"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
)

type testEmailConfig struct {
	recipient string
}

func (c testEmailConfig) GetEmailEnabled() bool       { return c.recipient != "" }
func (c testEmailConfig) GetSMTPHost() string         { return "" }
func (c testEmailConfig) GetSMTPPort() int            { return 0 }
func (c testEmailConfig) GetSMTPUsername() string     { return "" }
func (c testEmailConfig) GetSMTPPassword() string     { return "" }
func (c testEmailConfig) GetEmailFromName() string    { return "" }
func (c testEmailConfig) GetEmailFromAddress() string { return "" }
func (c testEmailConfig) GetAlertRecipient() string   { return c.recipient }

func publishScored(t *testing.T, bus events.Bus, band, previous string) error {
	t.Helper()
	return bus.PublishSync(context.Background(), events.LeadScored{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         uuid.New(),
		OrganizationID: uuid.New(),
		Score:          85,
		Band:           band,
		PreviousBand:   previous,
	})
}

func TestModuleIgnoresNonHighBands(t *testing.T) {
	bus := events.NewInMemoryBus(logger.New("test"))
	NewModule(nil, nil, testEmailConfig{}, bus, logger.New("test"))

	if err := publishScored(t, bus, "MEDIUM", ""); err != nil {
		t.Fatalf("expected MEDIUM band ignored, got %v", err)
	}
	if err := publishScored(t, bus, "LOW", ""); err != nil {
		t.Fatalf("expected LOW band ignored, got %v", err)
	}
}

func TestModuleSkipsRepeatHighBand(t *testing.T) {
	bus := events.NewInMemoryBus(logger.New("test"))
	NewModule(nil, nil, testEmailConfig{}, bus, logger.New("test"))

	// Already HIGH before this run: no re-alert, no error
	if err := publishScored(t, bus, "HIGH", "HIGH"); err != nil {
		t.Fatalf("expected repeat HIGH band skipped, got %v", err)
	}
}

func TestModuleSkipsWhenEmailNotConfigured(t *testing.T) {
	bus := events.NewInMemoryBus(logger.New("test"))
	NewModule(nil, nil, testEmailConfig{}, bus, logger.New("test"))

	// Transition into HIGH with no sender configured: logged and skipped
	if err := publishScored(t, bus, "HIGH", "MEDIUM"); err != nil {
		t.Fatalf("expected alert skipped without sender, got %v", err)
	}
}
