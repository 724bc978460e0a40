// Package httputil fetches graph documents over HTTP.
//
// # Overview
//
// Graph files can be given to linkrank as http:// or https:// URLs instead
// of local paths. [Fetcher] downloads them with:
//
//   - Response caching through any [cache.Cache], keyed by URL
//   - Automatic retry with exponential backoff for transient failures
//   - A size limit on response bodies
//
// # Retry
//
// [Retry] re-runs an operation only for errors wrapped with
// [cache.Retryable]. The fetcher marks these as retryable:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// A 404 maps to NOT_FOUND and other 4xx responses to INVALID_INPUT; both
// fail immediately.
//
// # Usage
//
//	f := httputil.NewFetcher(c)
//	resp, err := f.Get(ctx, "https://example.com/sites.json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(resp.Body), resp.Cached)
package httputil
