package mailer

import "errors"

var (
	// ErrNoSender indicates the From address is empty.
	ErrNoSender = errors.New("mailer: email must have a sender")

	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("mailer: email must have a subject")

	// ErrNoContent indicates neither HTML nor text body was provided.
	ErrNoContent = errors.New("mailer: email must have content")

	// ErrRenderFailed indicates the body could not be rendered.
	ErrRenderFailed = errors.New("mailer: failed to render message")

	// ErrSendFailed indicates the transport rejected the message.
	ErrSendFailed = errors.New("mailer: failed to send email")

	// ErrInvalidContent indicates a content catalogue is unusable.
	ErrInvalidContent = errors.New("mailer: invalid content catalogue")
)
