package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/dmitrymomot/mailwarm/pkg/mailer"
)

var (
	ErrNotConfigured  = errors.New("smtp: host and port are required")
	ErrUnknownMailbox = errors.New("smtp: no credentials for sender")
)

// Sender delivers mail through an SMTP relay, authenticating as the
// mailbox in the From header.
type Sender struct {
	mailboxes map[string]string
	now       func() time.Time
	cfg       Config
}

// New creates a sender for the given mailboxes. Addresses are matched
// case-insensitively. A mailbox with an empty password sends without AUTH.
func New(cfg Config, mailboxes ...Mailbox) *Sender {
	s := &Sender{
		cfg:       cfg,
		now:       time.Now,
		mailboxes: make(map[string]string, len(mailboxes)),
	}
	for _, mb := range mailboxes {
		s.mailboxes[strings.ToLower(mb.Address)] = mb.Password
	}
	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if s.cfg.Host == "" || s.cfg.Port <= 0 {
		return ErrNotConfigured
	}
	if err := email.Validate(); err != nil {
		return err
	}

	from := mailer.AddressOf(email.From)
	password, ok := s.mailboxes[strings.ToLower(from)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMailbox, from)
	}

	rcpts := make([]string, len(email.To))
	for i, to := range email.To {
		rcpts[i] = mailer.AddressOf(to)
	}

	msg, err := buildMessage(email, s.now())
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// The client has no context support; the transaction is bounded by
	// cfg.Timeout and abandoned when ctx ends first.
	errc := make(chan error, 1)
	go func() {
		errc <- s.deliver(from, password, rcpts, msg)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sender) deliver(from, password string, rcpts []string, msg []byte) error {
	c, err := s.dial()
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", s.cfg.Addr(), err)
	}
	defer c.Close()

	if s.cfg.Timeout > 0 {
		c.CommandTimeout = s.cfg.Timeout
		c.SubmissionTimeout = s.cfg.Timeout
	}

	if password != "" {
		if err := c.Auth(sasl.NewPlainClient("", from, password)); err != nil {
			return fmt.Errorf("smtp: auth as %s: %w", from, err)
		}
	}

	if err := c.SendMail(from, rcpts, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	return c.Quit()
}

func (s *Sender) dial() (*smtp.Client, error) {
	tlsCfg := &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify, //nolint:gosec // opt-in for self-signed relays
		MinVersion:         tls.VersionTLS12,
	}
	switch {
	case s.cfg.ImplicitTLS:
		return smtp.DialTLS(s.cfg.Addr(), tlsCfg)
	case s.cfg.StartTLS:
		return smtp.DialStartTLS(s.cfg.Addr(), tlsCfg)
	default:
		return smtp.Dial(s.cfg.Addr())
	}
}

var _ mailer.Sender = (*Sender)(nil)
