// Package mail delivers rendered messages over SMTP.
package mail

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer implements ports.Mailer.
type SMTPMailer struct {
	cfg  Config
	auth smtp.Auth
	send sendFunc
	now  func() time.Time
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{cfg: cfg, auth: auth, send: smtp.SendMail, now: time.Now}
}

// IsConfigured reports whether a relay host is set.
func (s *SMTPMailer) IsConfigured() bool {
	return s.cfg.Host != ""
}

func (s *SMTPMailer) Send(ctx context.Context, m ports.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to, err := mail.ParseAddress(m.To)
	if err != nil {
		return domain.Errorf(domain.ErrValidation, "Invalid recipient %q", m.To)
	}

	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	if err := s.send(addr, s.auth, s.cfg.From, []string{to.Address}, s.message(to, m)); err != nil {
		return fmt.Errorf("%w: failed to send email: %v", domain.ErrUpstream, err)
	}
	return nil
}

func (s *SMTPMailer) message(to *mail.Address, m ports.Mail) []byte {
	from := (&mail.Address{Name: s.cfg.FromName, Address: s.cfg.From}).String()

	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k + ": " + v + "\r\n")
	}
	header("From", from)
	header("To", to.Address)
	if reply, err := mail.ParseAddress(m.ReplyTo); err == nil {
		header("Reply-To", reply.Address)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/html; charset=UTF-8")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}
