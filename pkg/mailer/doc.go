// Package mailer prepares and delivers warmup messages.
//
// The package separates delivery (a [Sender] per transport) from rendering,
// so the SMTP and Resend transports share one message format.
//
// # Architecture
//
//   - [Sender]: implemented by pkg/mailer/smtp and pkg/mailer/resend
//   - [Renderer]: converts a markdown body to sanitized HTML plus plain text
//   - [Mailer]: renders [SendParams] and hands the [Email] to a Sender
//   - [Content]: the subject and body catalogue, loaded from YAML
//
// # Usage
//
//	sender := smtp.New(cfg.SMTP, smtp.Mailbox{Address: "a@example.com", Password: "..."})
//	m, err := mailer.New(sender, nil, mailer.Config{})
//	if err != nil {
//		return err
//	}
//
//	content, err := mailer.LoadContent(os.Getenv("WARMUP_CONTENT_FILE"))
//	if err != nil {
//		return err
//	}
//	subject, body := content.Pick(nil)
//
//	err = m.Send(ctx, mailer.SendParams{
//		From:    "a@example.com",
//		To:      "b@example.com",
//		Subject: subject,
//		Body:    body,
//	})
//
// # Content file
//
// Bodies are markdown and may reference .Sender and .Receiver:
//
//	subjects:
//	  - Quick check
//	  - Following up
//	bodies:
//	  - "Hi, just checking this."
//	  - "**{{.Receiver}}**, let me know your thoughts."
//
// # Error Handling
//
// Validation failures return [ErrNoSender], [ErrNoRecipient], [ErrNoSubject]
// or [ErrNoContent]. Transport failures are joined with [ErrSendFailed].
package mailer
