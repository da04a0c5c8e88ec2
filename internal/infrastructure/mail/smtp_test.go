package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

type capture struct {
	addr string
	from string
	to   []string
	msg  string
	err  error
}

func (c *capture) send(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
	c.addr, c.from, c.to, c.msg = addr, from, to, string(msg)
	return c.err
}

func newTestMailer(c *capture) *SMTPMailer {
	m := NewSMTPMailer(Config{Host: "smtp.test", Port: 587, From: "no-reply@medhr.test", FromName: "MedHR+"})
	m.send = c.send
	m.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return m
}

func TestSMTPMailer_Send(t *testing.T) {
	c := &capture{}
	m := newTestMailer(c)

	err := m.Send(context.Background(), ports.Mail{
		To:      "asha@example.com",
		ReplyTo: "ravi@example.com",
		Subject: "Interview – Monday",
		Body:    "<p>Hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.test:587", c.addr)
	assert.Equal(t, "no-reply@medhr.test", c.from)
	assert.Equal(t, []string{"asha@example.com"}, c.to)
	assert.Contains(t, c.msg, "Reply-To: ravi@example.com\r\n")
	assert.Contains(t, c.msg, "Subject: =?utf-8?q?")
	assert.Contains(t, c.msg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(c.msg, "\r\n\r\n<p>Hello</p>"))
}

func TestSMTPMailer_Errors(t *testing.T) {
	c := &capture{err: errors.New("421 try later")}
	m := newTestMailer(c)

	err := m.Send(context.Background(), ports.Mail{To: "asha@example.com"})
	assert.ErrorIs(t, err, domain.ErrUpstream)

	err = m.Send(context.Background(), ports.Mail{To: "not an address"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, ports.Mail{To: "asha@example.com"}), context.Canceled)
}
