package mail

import (
	"PastPort/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Status 邮件发送结果
type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped" // 邮件服务未配置，静默跳过
)

type SendResult struct {
	Status    Status `json:"status"`
	MessageID string `json:"message_id,omitempty"`
}

type Client interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) (*SendResult, error)
}

type httpMailClient struct {
	client *resty.Client
	cfg    config.MailConfig
}

// NewClient 构造 HTTP 邮件客户端。cfg.URL 为空时所有发送返回 skipped 而不是报错。
func NewClient(cfg config.MailConfig) Client {
	c := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "Bearer "+cfg.ApiKey)

	return &httpMailClient{
		client: c,
		cfg:    cfg,
	}
}

type providerResponse struct {
	ID string `json:"id"`
}

func (s *httpMailClient) Send(ctx context.Context, to, subject, htmlBody, textBody string) (*SendResult, error) {
	if s.cfg.URL == "" {
		log.InfoContext(ctx, "mail service disabled, skip sending", "to", to, "subject", subject)
		return &SendResult{Status: StatusSkipped}, nil
	}

	var result providerResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"from":    fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddr),
			"to":      []string{to},
			"subject": subject,
			"html":    htmlBody,
			"text":    textBody,
		}).
		SetResult(&result).
		Post(s.cfg.URL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mail provider returned %d: %s", resp.StatusCode(), resp.String())
	}

	return &SendResult{Status: StatusSent, MessageID: result.ID}, nil
}
