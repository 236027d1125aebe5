// Package smtp implements mailer.Sender over an SMTP relay such as Gmail.
//
// Each message is sent on its own connection. The sender authenticates with
// SASL PLAIN as the mailbox in the From header, so one Sender serves both
// warmup mailboxes. STARTTLS is used by default; set ImplicitTLS for port 465.
package smtp
