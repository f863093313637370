package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillsync/marketplace-api/internal/api/metrics"
	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the processor the audit dispatcher workers call.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditProcessor {
	return &auditService{repo: repo, log: log}
}

// Process assigns an id when missing and persists a single auth event.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "failed").Inc()
		return fmt.Errorf("process audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "persisted").Inc()
	s.log.Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Msg("audit event persisted")

	return nil
}
