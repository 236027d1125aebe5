package mailer

import (
	"net/mail"
	"strings"
)

// Tags are provider-level labels attached to a message.
// Presence-only tags hold struct{}{}; providers that need a value turn
// them into "true".
type Tags map[string]any

// SimpleTags creates presence-only tags.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and address as an RFC 5322 mailbox.
// The name is quoted, or encoded when it is not ASCII.
func Recipient(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

// AddressOf returns the bare address of an RFC 5322 mailbox string.
// Unparsable input is returned trimmed.
func AddressOf(s string) string {
	s = strings.TrimSpace(s)
	if a, err := mail.ParseAddress(s); err == nil {
		return a.Address
	}
	return s
}

// Email is a fully prepared message.
type Email struct {
	Headers map[string]string
	Tags    Tags
	From    string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	To      []string
}

// Validate checks the fields every transport needs.
func (e *Email) Validate() error {
	switch {
	case e == nil:
		return ErrNoContent
	case strings.TrimSpace(e.From) == "":
		return ErrNoSender
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "" && e.Text == "":
		return ErrNoContent
	}
	return nil
}
