package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeBackupNightly writes the nightly JSON dump.
	TaskTypeBackupNightly = "backup:nightly"
	// TaskTypeStockScan reports products running low on stock.
	TaskTypeStockScan = "stock:scan"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewSendEmailHandler processes TaskTypeSendEmail tasks. Delivery is a log
// line until an SMTP relay is configured.
func NewSendEmailHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("send email", "to", payload.To, "subject", payload.Subject)
		return nil
	}
}

// NewPasswordResetEmail builds the reset mail for the recovery flow.
func NewPasswordResetEmail(email, token string) SendEmailPayload {
	return SendEmailPayload{
		To:      email,
		Subject: "Recuperação de senha",
		Body:    fmt.Sprintf("Use o código abaixo para redefinir sua senha:\n\n%s", token),
	}
}
