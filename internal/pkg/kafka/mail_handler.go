package kafka

import (
	"PastPort/internal/pkg/mail"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MailHandler 消费邮件任务并调用邮件服务投递。
// 邮件是尽力而为的旁路：投递失败只记日志，不回退 offset 重放。
type MailHandler struct {
	mailClient mail.Client
}

func NewMailHandler(mailClient mail.Client) *MailHandler {
	return &MailHandler{
		mailClient: mailClient,
	}
}

func (s *MailHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("mail consumer setup")
	return nil
}

func (s *MailHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("mail consumer cleanup")
	return nil
}

func (s *MailHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := s.logic(session.Context(), msg); err != nil {
				log.Error("mail task process error", "err", err)
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (s *MailHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var task MailTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return errors.Wrap(err, "unmarshal mail task")
	}
	if task.To == "" {
		return errors.New("mail task missing recipient")
	}

	res, err := s.mailClient.Send(ctx, task.To, task.Subject, task.HTMLBody, task.TextBody)
	if err != nil {
		return errors.Wrapf(err, "send mail to %s", task.To)
	}

	log.InfoContext(ctx, "mail task delivered",
		"to", task.To, "status", res.Status, "message_id", res.MessageID)
	return nil
}
