package mailer

import (
	"context"
	"errors"
)

// Mailer renders markdown bodies and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a Mailer. A nil renderer gets the default one.
func New(sender Sender, renderer *Renderer, cfg Config) (*Mailer, error) {
	if renderer == nil {
		r, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		renderer = r
	}
	return &Mailer{sender: sender, renderer: renderer, config: cfg}, nil
}

// SendParams describes one message.
type SendParams struct {
	Headers map[string]string
	Tags    Tags
	Data    any    // Body template data
	From    string // Sender mailbox address
	To      string // Receiver mailbox address
	Subject string
	Body    string // Markdown, may contain template actions
}

// Send renders params.Body and delivers the message.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}

	result, err := m.renderer.Render(params.Subject, params.Body, params.Data)
	if err != nil {
		return err
	}

	email := &Email{
		From:    Recipient(m.config.SenderName, params.From),
		To:      []string{params.To},
		Subject: params.Subject,
		HTML:    result.HTML,
		Text:    result.Text,
		Headers: params.Headers,
		Tags:    params.Tags,
	}
	return m.SendRaw(ctx, email)
}

// SendRaw validates and delivers a prepared email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
