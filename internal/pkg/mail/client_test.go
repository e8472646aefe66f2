package mail_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"PastPort/internal/api/config"
	"PastPort/internal/pkg/mail"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestSendDisabledReturnsSkipped(t *testing.T) {
	assert := assert.New(t)

	client := mail.NewClient(config.MailConfig{})

	res, err := client.Send(context.Background(), "a@b.com", "标题", "<p>hi</p>", "hi")
	assert.Nil(err)
	assert.Equal(mail.StatusSkipped, res.Status)
	assert.Empty(res.MessageID)
}

func TestSendSuccess(t *testing.T) {
	assert := assert.New(t)

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-001"}`))
	}))
	defer srv.Close()

	client := mail.NewClient(config.MailConfig{
		URL:      srv.URL,
		ApiKey:   "test-key",
		FromName: "PastPort",
		FromAddr: "noreply@pastport.app",
	})

	res, err := client.Send(context.Background(), "a@b.com", "你的胶囊已解锁", "<p>hi</p>", "hi")
	assert.Nil(err)
	assert.Equal(mail.StatusSent, res.Status)
	assert.Equal("msg-001", res.MessageID)
	assert.Equal("你的胶囊已解锁", gotBody["subject"])
	assert.Equal("PastPort <noreply@pastport.app>", gotBody["from"])
}

func TestSendProviderError(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := mail.NewClient(config.MailConfig{URL: srv.URL})

	_, err := client.Send(context.Background(), "a@b.com", "s", "h", "t")
	assert.NotNil(err)
}
