package service

import (
	"context"
	"io"
	"testing"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestAuditService_Log_PersistsToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	done := make(chan struct{})
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.AuditLog) error {
			if log.Action != domain.AuditActionReleaseHold {
				t.Errorf("expected RELEASE_HOLD, got %s", log.Action)
			}
			close(done)
			return nil
		},
	)

	svc.Log(context.Background(), &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    uuid.New(),
		Action:     domain.AuditActionReleaseHold,
		EntityType: "hold",
		EntityID:   uuid.New().String(),
		Before:     string(domain.HoldStatusHeld),
		After:      string(domain.HoldStatusReleased),
		IPAddress:  "127.0.0.1",
		CreatedAt:  time.Now(),
	})

	select {
	case <-done:
		// OK
	case <-time.After(2 * time.Second):
		t.Fatal("audit log not persisted in time")
	}
}

func TestAuditService_Log_NilRepo(t *testing.T) {
	svc := NewAuditService(nil, newTestLogger())

	// Should not panic
	svc.Log(context.Background(), &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    uuid.New(),
		Action:     domain.AuditActionLedgerSync,
		EntityType: "ledger",
		IPAddress:  "127.0.0.1",
		CreatedAt:  time.Now(),
	})

	time.Sleep(50 * time.Millisecond) // let goroutine run
}

func TestAuditService_Log_RepoErrorSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	done := make(chan struct{})
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.AuditLog) error {
			close(done)
			return context.DeadlineExceeded
		},
	)

	// A failing repo must never panic or surface to the caller.
	svc.Log(context.Background(), &domain.AuditLog{
		ID:        uuid.New(),
		ActorID:   uuid.New(),
		Action:    domain.AuditActionReviewAlert,
		CreatedAt: time.Now(),
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("audit log attempt not made in time")
	}
}
