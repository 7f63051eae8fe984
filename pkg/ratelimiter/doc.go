// Package ratelimiter implements token bucket rate limiting.
//
// A Bucket holds up to Capacity tokens per key and gains RefillRate tokens
// every RefillInterval. Requests that need more tokens than the bucket holds are
// denied without draining it.
//
//	store := ratelimiter.NewMemoryStore()
//	go store.Run(ctx)()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 6 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, clientIP)
//	if err != nil {
//		return err
//	}
//	if !res.Allowed() {
//		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())+1))
//	}
package ratelimiter
