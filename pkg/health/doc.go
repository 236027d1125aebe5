// Package health serves liveness and readiness probes.
//
// Liveness answers OK as long as the process handles requests. Readiness
// runs named checks concurrently under a shared timeout and responds 503
// when any check fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"store":  store.Ping,
//		"config": func(context.Context) error { return gate.Validate() },
//	}, health.WithTimeout(3*time.Second), health.WithLogger(log)))
//
// Clients get plain text by default and JSON with ?format=json or an
// Accept: application/json header:
//
//	{"status":"unhealthy","checks":{"store":{"status":"unhealthy","error":"dial tcp: refused","duration":"2ms"}}}
package health
