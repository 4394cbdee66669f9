package ant

import (
	"context"
	"time"

	"github.com/nao1215/antcrawl/thing"
)

// retryableStatus is the lowest status code treated as transient. The
// rule is literally "any error, or status >= 500"; no other codes are
// special-cased.
const retryableStatus = 500

// send wraps one "send request, get response" operation with the retry
// policy: retries+1 total attempts, a fixed delay between them, and a
// retry whenever an attempt errored or came back with a server error
// status. After the final attempt the last outcome is handed to the
// caller as-is, whether that is an error or a server error response.
func (a *Ant) send(ctx context.Context, req *thing.Request) (*thing.Response, error) {
	attempts := a.retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var res *thing.Response
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err = a.sendOnce(ctx, req)
		if err == nil && res.StatusCode < retryableStatus {
			return res, nil
		}
		if attempt == attempts {
			break
		}

		if err != nil {
			a.logger.Warn("request attempt failed",
				"request", req, "attempt", attempt, "error", err)
		} else {
			a.logger.Warn("request attempt got server error",
				"request", req, "attempt", attempt, "status", res.StatusCode)
		}

		// Fixed delay, not exponential. A canceled context cuts the
		// whole retry sequence short.
		timer := time.NewTimer(a.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return res, err
}
