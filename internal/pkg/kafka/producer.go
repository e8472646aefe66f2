package kafka

import (
	"PastPort/internal/api/config"
	"PastPort/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

func mailTopic(cfg *config.Config) string {
	if cfg.KafkaMailConsumer.Topic != "" {
		return cfg.KafkaMailConsumer.Topic
	}
	return consts.DefaultMailTopic
}

// MailTask 异步邮件任务载荷
type MailTask struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// MailProducer 将邮件任务写入 Kafka，由消费组异步投递
type MailProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewMailProducer(cfg *config.Config) (*MailProducer, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &MailProducer{
		producer: producer,
		topic:    mailTopic(cfg),
	}, nil
}

// Publish 写入一条邮件任务。按收件人分区，保证同一用户的邮件顺序。
func (s *MailProducer) Publish(ctx context.Context, task *MailTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(task.To),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "mail task published",
		"to", task.To, "partition", partition, "offset", offset)
	return nil
}

func (s *MailProducer) Close() error {
	return s.producer.Close()
}
