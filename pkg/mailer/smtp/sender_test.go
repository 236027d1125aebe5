package smtp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailwarm/pkg/mailer"
)

// received is one message accepted by the test server.
type received struct {
	user string
	from string
	to   []string
	data []byte
}

// testBackend is an in-process relay that checks PLAIN credentials.
type testBackend struct {
	passwords map[string]string
	mu        sync.Mutex
	messages  []received
}

func (b *testBackend) NewSession(*smtp.Conn) (smtp.Session, error) {
	return &testSession{backend: b}, nil
}

func (b *testBackend) delivered() []received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]received(nil), b.messages...)
}

type testSession struct {
	backend *testBackend
	cur     received
}

func (s *testSession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *testSession) Auth(string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if want, ok := s.backend.passwords[username]; !ok || want != password {
			return errors.New("invalid credentials")
		}
		s.cur.user = username
		return nil
	}), nil
}

func (s *testSession) Mail(from string, _ *smtp.MailOptions) error {
	if s.cur.user == "" {
		return smtp.ErrAuthRequired
	}
	s.cur.from = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.cur.to = append(s.cur.to, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.cur.data = data

	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.cur)
	s.backend.mu.Unlock()
	return nil
}

func (s *testSession) Reset() {
	s.cur = received{user: s.cur.user}
}

func (s *testSession) Logout() error { return nil }

func startServer(t *testing.T, passwords map[string]string) (*testBackend, Config) {
	t.Helper()

	be := &testBackend{passwords: passwords}
	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	addr := l.Addr().(*net.TCPAddr)
	return be, Config{Host: "127.0.0.1", Port: addr.Port, Timeout: 5 * time.Second}
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	passwords := map[string]string{
		"alice@example.com": "alice-pass",
		"bob@example.com":   "bob-pass",
	}

	t.Run("authenticates as the sender mailbox", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t, passwords)
		s := New(cfg,
			Mailbox{Address: "alice@example.com", Password: "alice-pass"},
			Mailbox{Address: "Bob@Example.com", Password: "bob-pass"},
		)

		err := s.Send(context.Background(), &mailer.Email{
			From:    "bob@example.com",
			To:      []string{"Alice <alice@example.com>"},
			Subject: "Following up",
			Text:    "Please confirm once.\n",
			HTML:    "<p>Please confirm once.</p>",
			Headers: map[string]string{"X-Warmup": "1"},
		})
		require.NoError(t, err)

		msgs := be.delivered()
		require.Len(t, msgs, 1)
		require.Equal(t, "bob@example.com", msgs[0].user)
		require.Equal(t, "bob@example.com", msgs[0].from)
		require.Equal(t, []string{"alice@example.com"}, msgs[0].to)

		mr, err := mail.CreateReader(bytes.NewReader(msgs[0].data))
		require.NoError(t, err)
		subject, err := mr.Header.Subject()
		require.NoError(t, err)
		require.Equal(t, "Following up", subject)
		require.Equal(t, "1", mr.Header.Get("X-Warmup"))
		require.NotEmpty(t, mr.Header.Get("Message-Id"))

		var parts []string
		for {
			p, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			h, ok := p.Header.(*mail.InlineHeader)
			require.True(t, ok)
			ct, _, err := h.ContentType()
			require.NoError(t, err)
			body, err := io.ReadAll(p.Body)
			require.NoError(t, err)
			parts = append(parts, ct+": "+strings.TrimSpace(string(body)))
		}
		require.Equal(t, []string{
			"text/plain: Please confirm once.",
			"text/html: <p>Please confirm once.</p>",
		}, parts)
	})

	t.Run("text only message", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t, passwords)
		s := New(cfg, Mailbox{Address: "alice@example.com", Password: "alice-pass"})

		err := s.Send(context.Background(), &mailer.Email{
			From:    "alice@example.com",
			To:      []string{"bob@example.com"},
			Subject: "Quick check",
			Text:    "Hey, just checking this.",
		})
		require.NoError(t, err)

		msgs := be.delivered()
		require.Len(t, msgs, 1)
		require.Contains(t, string(msgs[0].data), "Content-Type: text/plain")
		require.Contains(t, string(msgs[0].data), "Hey, just checking this.")
	})

	t.Run("sender name with a comma", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t, passwords)
		s := New(cfg, Mailbox{Address: "alice@example.com", Password: "alice-pass"})
		m, err := mailer.New(s, nil, mailer.Config{SenderName: "Warmup, Inc"})
		require.NoError(t, err)

		err = m.Send(context.Background(), mailer.SendParams{
			From:    "alice@example.com",
			To:      "bob@example.com",
			Subject: "Quick check",
			Body:    "Hey, just checking this.",
		})
		require.NoError(t, err)

		msgs := be.delivered()
		require.Len(t, msgs, 1)
		require.Equal(t, "alice@example.com", msgs[0].user)
		require.Equal(t, "alice@example.com", msgs[0].from)

		mr, err := mail.CreateReader(bytes.NewReader(msgs[0].data))
		require.NoError(t, err)
		from, err := mr.Header.AddressList("From")
		require.NoError(t, err)
		require.Len(t, from, 1)
		require.Equal(t, "Warmup, Inc", from[0].Name)
		require.Equal(t, "alice@example.com", from[0].Address)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t, passwords)
		s := New(cfg, Mailbox{Address: "alice@example.com", Password: "nope"})

		err := s.Send(context.Background(), &mailer.Email{
			From: "alice@example.com", To: []string{"bob@example.com"}, Subject: "s", Text: "t",
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "auth as alice@example.com")
		require.Empty(t, be.delivered())
	})

	t.Run("unknown sender mailbox", func(t *testing.T) {
		t.Parallel()

		s := New(Config{Host: "127.0.0.1", Port: 25}, Mailbox{Address: "alice@example.com", Password: "x"})
		err := s.Send(context.Background(), &mailer.Email{
			From: "mallory@example.com", To: []string{"bob@example.com"}, Subject: "s", Text: "t",
		})
		require.ErrorIs(t, err, ErrUnknownMailbox)
	})

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()

		err := New(Config{}).Send(context.Background(), &mailer.Email{})
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		err := New(Config{Host: "127.0.0.1", Port: 25}).Send(context.Background(), &mailer.Email{From: "a@example.com"})
		require.ErrorIs(t, err, mailer.ErrNoRecipient)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := New(Config{Host: "127.0.0.1", Port: 25}, Mailbox{Address: "alice@example.com", Password: "x"})
		err := s.Send(ctx, &mailer.Email{
			From: "alice@example.com", To: []string{"bob@example.com"}, Subject: "s", Text: "t",
		})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := l.Addr().(*net.TCPAddr).Port
		require.NoError(t, l.Close())

		s := New(Config{Host: "127.0.0.1", Port: port, StartTLS: true}, Mailbox{Address: "alice@example.com", Password: "x"})
		err = s.Send(context.Background(), &mailer.Email{
			From: "alice@example.com", To: []string{"bob@example.com"}, Subject: "s", Text: "t",
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "smtp: dial")
	})
}

func TestBuildMessage_InvalidAddresses(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := buildMessage(&mailer.Email{From: "not an address", To: []string{"b@example.com"}}, now)
	require.Error(t, err)

	_, err = buildMessage(&mailer.Email{From: "a@example.com", To: []string{"@@"}}, now)
	require.Error(t, err)

	msg, err := buildMessage(&mailer.Email{
		From: "a@example.com", To: []string{"b@example.com"}, ReplyTo: "c@example.com", Subject: "s", Text: "t",
	}, now)
	require.NoError(t, err)
	require.Contains(t, string(msg), "Reply-To:")
	require.Contains(t, string(msg), "c@example.com")
	require.Contains(t, string(msg), "01 Mar 2025 12:00:00")
}

func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	require.Equal(t, "smtp.gmail.com:587", Config{Host: "smtp.gmail.com", Port: 587}.Addr())
}
