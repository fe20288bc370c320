package service

import (
	"context"
	"encoding/json"
	"time"

	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/pkg/logger"
)

// IAlertService fans a reconciliation alert out onto the in-process
// bus. Reporting must never fail the originating request, so the only
// error surface is the log.
type IAlertService interface {
	Report(ctx context.Context, alert dto.ReconciliationAlertMessage)
}

type alertService struct {
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewAlertService(publisherService IPublisherService, logger logger.ILogger) IAlertService {
	return &alertService{
		publisherService: publisherService,
		logger:           logger,
	}
}

func (s *alertService) Report(ctx context.Context, alert dto.ReconciliationAlertMessage) {
	if alert.OccurredAt.IsZero() {
		alert.OccurredAt = time.Now()
	}

	s.logger.Error("reconciliation", "money left inconsistent, alert raised", map[string]interface{}{
		"kind":          alert.Kind,
		"subject_id":    alert.SubjectId,
		"activation_id": alert.ActivationId,
		"service":       alert.Service,
		"amount":        alert.Amount,
		"detail":        alert.Detail,
	})

	payload, err := json.Marshal(alert)
	if err != nil {
		s.logger.Error("reconciliation", "failed to marshal alert", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("reconciliation", "failed to publish alert", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
