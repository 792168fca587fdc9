package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveStandings fetches the standing of every user touched by the run.
func retrieveStandings(ctx context.Context, config *Config, subs []Submission, stats *Stats) ([]Entry, error) {
	// Collapse submissions to the unique user set.
	seen := make(map[string]struct{}, len(subs))
	userIDs := make([]string, 0, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.UserID]; ok {
			continue
		}
		seen[sub.UserID] = struct{}{}
		userIDs = append(userIDs, sub.UserID)
	}

	log.Printf("retrieving standings for %d users with %d workers", len(userIDs), config.Workers)

	client := newHTTPClient(config.Timeout)

	standings := make([]Entry, len(userIDs))
	var (
		retrieved int64
		failed    int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					userID := userIDs[index]
					entry, err := retrieveSingleStanding(ctx, client, config.BaseURL, userID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get standing for %s: %v", userID, err)
						}
					} else {
						standings[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						log.Printf("standings progress: %d/%d retrieved (success: %d, failed: %d)",
							total, len(userIDs), atomic.LoadInt64(&retrieved), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range userIDs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	// Drop entries for users whose standing could not be retrieved. A user
	// whose every submission was rejected never enters the standings, so
	// some misses are expected on suspicious-heavy runs.
	valid := make([]Entry, 0, len(standings))
	for _, entry := range standings {
		if entry.UserID != "" {
			valid = append(valid, entry)
		}
	}

	stats.StandingsRetrieved = len(valid)

	log.Printf(`standings retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(valid), int(atomic.LoadInt64(&failed)))

	return valid, nil
}

// retrieveSingleStanding fetches the standing for one user.
func retrieveSingleStanding(ctx context.Context, client *HTTPClient, baseURL, userID string) (Entry, error) {
	url := fmt.Sprintf("%s/rank/%s", baseURL, userID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, nil
}

// getLeaderboard retrieves the top N leaderboard entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("getting top %d leaderboard entries", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var leaderboard []Entry
	if err := json.Unmarshal(body, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(leaderboard)
	log.Printf("retrieved %d leaderboard entries", len(leaderboard))

	return leaderboard, nil
}
