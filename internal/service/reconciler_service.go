package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/pkg/logger"
	"sms-rental-be/internal/pkg/mailer"
	"sms-rental-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IReconcilerService interface {
	Consume(ctx context.Context) error
}

// reconcilerService drains the alert topic: every alert becomes a
// durable system_logs row and, when an ops address is configured, an
// email. The row is the source of truth for the manual reconciliation
// runbook.
type reconcilerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewReconcilerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	logger logger.ILogger,
) IReconcilerService {
	return &reconcilerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       logger,
	}
}

func (rs *reconcilerService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *reconcilerService) processMessage(ctx context.Context, msg *message.Message) {
	var alert dto.ReconciliationAlertMessage
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		rs.logger.Error("reconciler", "failed to unmarshal alert", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads never become valid, drop them
		return
	}

	module := "reconciliation"
	entry := &entity.SystemLog{
		Id:      uuid.New(),
		Level:   "error",
		Module:  &module,
		Message: alert.Kind,
		Details: map[string]interface{}{
			"subject_id":    alert.SubjectId,
			"activation_id": alert.ActivationId,
			"service":       alert.Service,
			"amount":        alert.Amount,
			"detail":        alert.Detail,
			"occurred_at":   alert.OccurredAt.Format(time.RFC3339),
		},
		CreatedAt: time.Now(),
	}

	uow := rs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SystemLogRepository().Create(ctx, entry); err != nil {
		rs.logger.Error("reconciler", "failed to persist alert", map[string]interface{}{
			"error": err.Error(),
			"kind":  alert.Kind,
		})
		msg.Nack() // DB hiccups are retriable
		return
	}

	subject := fmt.Sprintf("[sms-rental] reconciliation required: %s", alert.Kind)
	body := fmt.Sprintf(
		"Kind: %s\nSubject: %s\nActivation: %s\nService: %s\nAmount: %d\nDetail: %s\nOccurred: %s\n",
		alert.Kind, alert.SubjectId, alert.ActivationId, alert.Service,
		alert.Amount, alert.Detail, alert.OccurredAt.Format(time.RFC3339),
	)
	if err := rs.emailService.SendReconciliationAlert(subject, body); err != nil {
		// The row is already durable; an email failure is not worth a
		// redelivery loop.
		rs.logger.Warn("reconciler", "failed to send alert email", map[string]interface{}{
			"error": err.Error(),
		})
	}

	msg.Ack()
}
