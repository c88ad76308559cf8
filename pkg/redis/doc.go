// Package redis connects to Redis with github.com/redis/go-redis/v9.
//
// boardly uses Redis, when REDIS_URL is set, as the shared backend for the
// session store and the rate limiter so several replicas agree on which
// sessions exist. Connect retries until the server answers a PING; Healthcheck
// plugs into the /readyz probe.
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
