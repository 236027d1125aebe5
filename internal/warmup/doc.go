// Package warmup implements the rate gate that paces warmup traffic
// between two mailboxes.
//
// Each trigger (an HTTP request or a scheduler tick) calls [Gate.Run] once.
// The gate reads the last send time and today's count from a kv.Store,
// applies [Decide], and when a send is allowed picks a random direction,
// subject and body, delivers the message and writes the counters back.
//
// # State
//
// [State] is passed into [Decide] and returned from [State.Advance]; the
// package keeps no process-wide counters. [Counters] maps it onto two keys
// that expire at the next UTC midnight:
//
//	warmup:count:2025-03-01 = "3"
//	warmup:last_sent        = "1740830400"
//
// # Results
//
// [Result] serializes to the JSON returned by the HTTP endpoint:
//
//	{"status":"sent","subject":"Quick check","sender":"a@x","receiver":"b@x","sent_today":3}
//	{"status":"skipped","reason":"min_interval_not_reached","last_sent":1740830400}
//	{"status":"skipped","reason":"daily_limit_reached","sent_today":10}
//	{"status":"error","message":"..."}
package warmup
