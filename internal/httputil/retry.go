// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the outbound clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// TransientRetryDelay is the pause before the single retry on a transport
// error. Tests override this as well.
var TransientRetryDelay = 500 * time.Millisecond

const defaultMaxRetries = 3

// DoWithRetry executes an HTTP request with two recovery behaviors:
//
//   - On a transport error (connection reset, refused, DNS) it retries
//     exactly once after TransientRetryDelay, then gives up.
//   - On HTTP 429 it retries with exponential backoff starting at
//     RetryBaseDelay and doubling each attempt, up to maxRetries times.
//
// When maxRetries is 0 the default (3) is used. On each 429 the response
// body is drained and closed before sleeping. If the context is cancelled
// during a wait the function returns ctx.Err(). After exhausting retries
// the last 429 response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	transportRetried := false
	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		// Rewind the body on retries; Clone alone would resend a
		// consumed reader.
		if attempt > 0 || transportRetried {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				attemptReq.Body = body
			}
		}
		resp, err := client.Do(attemptReq)
		if err != nil {
			if transportRetried || ctx.Err() != nil {
				return nil, err
			}
			transportRetried = true
			attempt--
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(TransientRetryDelay):
			}
			continue
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries: return the 429 response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
