// Package redis opens go-redis clients for the Redis state store backend.
//
// Connect retries the initial ping so the service can start alongside a
// Redis container that is still booting. Healthcheck and Shutdown return
// closures that plug into the readiness probe and the server's shutdown
// hooks.
//
//	client, err := redis.Connect(ctx, redis.Config{URL: os.Getenv("REDIS_URL")}, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
