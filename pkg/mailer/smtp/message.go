package smtp

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/dmitrymomot/mailwarm/pkg/mailer"
)

// buildMessage encodes email as an RFC 5322 message. Messages with an HTML
// body become multipart/alternative with the text part first.
func buildMessage(email *mailer.Email, now time.Time) ([]byte, error) {
	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return nil, fmt.Errorf("smtp: invalid from address: %w", err)
	}
	to := make([]*mail.Address, 0, len(email.To))
	for _, rcpt := range email.To {
		a, err := mail.ParseAddress(rcpt)
		if err != nil {
			return nil, fmt.Errorf("smtp: invalid recipient %q: %w", rcpt, err)
		}
		to = append(to, a)
	}

	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", to)
	h.SetSubject(email.Subject)
	if email.ReplyTo != "" {
		rt, err := mail.ParseAddress(email.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("smtp: invalid reply-to address: %w", err)
		}
		h.SetAddressList("Reply-To", []*mail.Address{rt})
	}
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("smtp: generate message id: %w", err)
	}
	for k, v := range email.Headers {
		h.Set(k, v)
	}

	var buf bytes.Buffer
	if email.HTML == "" {
		h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
		w, err := mail.CreateSingleInlineWriter(&buf, h)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, email.Text); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	w, err := mail.CreateInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if email.Text != "" {
		if err := writePart(w, "text/plain", email.Text); err != nil {
			return nil, err
		}
	}
	if err := writePart(w, "text/html", email.HTML); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(w *mail.InlineWriter, contentType, body string) error {
	var h mail.InlineHeader
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	pw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(pw, body); err != nil {
		_ = pw.Close()
		return err
	}
	return pw.Close()
}
