package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey carries the inbound request id so adapter-level timings can
// be correlated with the request log line.
const RequestIDKey ctxKey = "req_id"

// Time logs the duration and outcome of a named operation when the
// returned func runs. The travel-time cache adapters lean on this: slow
// Get/Put calls are the usual suspect when suggestion runs degrade.
//
//	defer obs.Time(ctx, "traveltime.cache.Get")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start).Milliseconds()

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur, *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur)
	}
}
