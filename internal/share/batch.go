package share

import (
	"context"
	"time"

	"discord-share/internal/models"
)

// DefaultConcurrency bounds PrepareAll when the caller passes zero.
const DefaultConcurrency = 10

// BatchResult is one line of a batch tagging run.
type BatchResult struct {
	URL   string        `json:"url"`
	Draft *models.Draft `json:"draft,omitempty"`
	Error string        `json:"error,omitempty"`
}

// PrepareAll runs Prepare over urls with bounded concurrency. Results keep
// the input order; each fetch gets its own timeout.
func (s *Service) PrepareAll(ctx context.Context, urls []string, concurrency int, perURL time.Duration) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]BatchResult, len(urls))

	sem := make(chan struct{}, concurrency)
	done := make(chan int, len(urls))

	for i, u := range urls {
		sem <- struct{}{} // acquire
		go func() {
			defer func() { <-sem; done <- i }()
			if u == "" {
				results[i] = BatchResult{URL: u, Error: "empty url"}
				return
			}
			fctx := ctx
			if perURL > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, perURL)
				defer cancel()
			}
			draft, err := s.Prepare(fctx, u)
			if err != nil {
				results[i] = BatchResult{URL: u, Error: err.Error()}
				return
			}
			results[i] = BatchResult{URL: u, Draft: &draft}
		}()
	}
	for range urls {
		<-done
	}
	return results
}
