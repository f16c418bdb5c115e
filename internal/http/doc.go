// Package http provides the HTTP client shared by the artwork providers.
//
// The Client in this package handles:
//   - User-Agent headers (MusicBrainz rejects anonymous clients)
//   - Rate limiting with golang.org/x/time/rate
//   - Retries with exponential backoff for transient failures
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{
//	    UserAgent:       "cover-mosaic/0.1 ( you@example.com )",
//	    RequestInterval: time.Second,
//	    MaxRetries:      3,
//	})
//
//	xml, err := client.GetString(ctx, searchURL)
//	if http.IsNotFound(err) {
//	    // no such resource
//	}
//
// # Retries
//
// Network errors, 429 Too Many Requests and 5xx responses are retried;
// other statuses are returned immediately as *StatusError.
package http
