package notify

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
)

// HealthCheck implements ports.HealthChecker for NATS.
type HealthCheck struct {
	nc *nats.Conn
}

// NewHealthCheck creates a NATS health checker. nc may be nil when
// event publishing is disabled; the checker then always reports
// healthy.
func NewHealthCheck(nc *nats.Conn) *HealthCheck {
	return &HealthCheck{nc: nc}
}

// Ping checks the NATS connection state.
func (h *HealthCheck) Ping(_ context.Context) error {
	if h.nc == nil {
		return nil
	}
	if !h.nc.IsConnected() {
		return errors.New("nats connection lost")
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "nats"
}
