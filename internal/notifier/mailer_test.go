package notifier

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "apikey",
		Password: "secret",
		From:     "noreply@example.com",
	})

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, msg
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "user@example.com", "New reply", "hello"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, []string{"user@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: New reply\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nhello")
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: "25"})
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	err := m.Send(context.Background(), "user@example.com\r\nBcc: victim@example.com", "hi", "body")
	assert.Error(t, err)
	assert.False(t, called)
}

func TestSMTPMailer_WrapsSendErrors(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: "25"})
	relayErr := errors.New("550 mailbox unavailable")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return relayErr }

	err := m.Send(context.Background(), "user@example.com", "hi", "body")
	assert.ErrorIs(t, err, relayErr)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: "25"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, "user@example.com", "hi", "body"), context.Canceled)
}

func TestLogMailer_Send(t *testing.T) {
	assert.NoError(t, NewLogMailer(zap.NewNop()).Send(context.Background(), "user@example.com", "hi", "body"))
}
