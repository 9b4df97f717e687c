// Package redis connects to Redis with retries and exposes a readiness check.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := usage.NewRedisStore(client, "")
//	ready := redis.Healthcheck(client)
package redis
