package kafka

import (
	"PastPort/internal/api/config"
	"PastPort/internal/pkg/mail"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	mailConsumer sarama.ConsumerGroup
	mailHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, mailClient mail.Client) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	mailConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaMailConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	mailHandler := NewMailHandler(mailClient)

	return &ConsumerManager{
		mailConsumer: mailConsumer,
		mailHandler:  mailHandler,
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := mailTopic(cfg)
		log.Info("Mail consumer started", "topic", topic)
		for {
			if err := m.mailConsumer.Consume(ctx, []string{topic}, m.mailHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.mailConsumer.Close(); err != nil {
		log.Error("Failed to close mail consumer", "err", err)
	}

	return nil
}
