package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitAll posts submissions concurrently through a worker pool.
func submitAll(ctx context.Context, config *Config, subs []Submission, stats *Stats) error {
	log.Printf("submitting %d submissions with %d workers", len(subs), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/submissions"

	var (
		accepted  int64
		duplicate int64
		throttled int64
		failed    int64
		submitted int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	subChan := make(chan Submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingle(ctx, client, url, sub)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "throttled":
						atomic.AddInt64(&throttled, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						log.Printf("progress: %d/%d submitted (accepted: %d, duplicate: %d, throttled: %d, failed: %d)",
							total, len(subs),
							atomic.LoadInt64(&accepted), atomic.LoadInt64(&duplicate),
							atomic.LoadInt64(&throttled), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.SubmissionsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SubmissionsAccepted = int(atomic.LoadInt64(&accepted))
	stats.SubmissionsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SubmissionsThrottled = int(atomic.LoadInt64(&throttled))
	stats.SubmissionsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`submission run completed:
   Accepted: %d
   Duplicate: %d
   Throttled: %d
   Failed: %d
`, stats.SubmissionsAccepted, stats.SubmissionsDuplicate, stats.SubmissionsThrottled, stats.SubmissionsFailed)

	return nil
}

// submitSingle posts one submission and classifies the outcome.
func submitSingle(ctx context.Context, client *HTTPClient, url string, sub Submission) string {
	resp, err := client.Post(ctx, url, sub)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return "accepted"
	case StatusOK:
		// Idempotency hit: the service acknowledged without re-enqueueing.
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && !ack.Duplicate {
			return "failed"
		}
		return "duplicate"
	case StatusTooManyRequests:
		return "throttled"
	default:
		return "failed"
	}
}
