package warmup

// Status is the outcome category of a trigger.
type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Result is returned by Gate.Run and serialized as the HTTP response.
// Only the fields relevant to the status are set.
type Result struct {
	SentToday *int   `json:"sent_today,omitempty"`
	LastSent  *int64 `json:"last_sent,omitempty"`
	Status    Status `json:"status"`
	Reason    Reason `json:"reason,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Receiver  string `json:"receiver,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Sent builds a result for a delivered message.
func Sent(subject, sender, receiver string, sentToday int) Result {
	return Result{
		Status:    StatusSent,
		Subject:   subject,
		Sender:    sender,
		Receiver:  receiver,
		SentToday: &sentToday,
	}
}

// SkippedMinInterval builds a result for a trigger that came too soon.
func SkippedMinInterval(lastSent int64) Result {
	return Result{Status: StatusSkipped, Reason: ReasonMinInterval, LastSent: &lastSent}
}

// SkippedDailyLimit builds a result for a trigger after the cap was reached.
func SkippedDailyLimit(sentToday int) Result {
	return Result{Status: StatusSkipped, Reason: ReasonDailyLimit, SentToday: &sentToday}
}

// Failed builds an error result.
func Failed(err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Status: StatusError, Message: msg}
}

// IsError reports whether r is an error result.
func (r Result) IsError() bool {
	return r.Status == StatusError
}
