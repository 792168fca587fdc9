package loadgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cabe-arena/arena/internal/domain/skill"
	"github.com/cabe-arena/arena/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Task shapes the generator draws from. Base/max pairs loosely mirror the
// point ranges of real practice tasks and mini projects.
type taskShape struct {
	taskType   string
	basePoints int
	maxPoints  int
}

var taskShapes = []taskShape{
	{taskType: "practice", basePoints: 20, maxPoints: 80},
	{taskType: "practice", basePoints: 50, maxPoints: 200},
	{taskType: "practice", basePoints: 75, maxPoints: 300},
	{taskType: "mini_project", basePoints: 150, maxPoints: 600},
	{taskType: "mini_project", basePoints: 250, maxPoints: 1000},
}

var proofStrengths = []int{10, 25, 50}

// Honest proofs long enough to clear the short-proof heuristic.
var honestProofs = []string{
	"Implemented the REST endpoints with pagination and wrote integration coverage for the error paths.",
	"Deployed the staging cluster with terraform, wired up autoscaling and verified rollout with a canary.",
	"Cleaned the dataset, handled missing values with median imputation and documented the feature pipeline.",
	"Trained the classifier on the balanced split and reported precision and recall per class in the notebook.",
	"Refactored the submission handler to stream uploads and added benchmarks showing the allocation drop.",
	"Set up the CI pipeline with caching and parallel test shards, cutting the build time roughly in half.",
	"Built the dashboard queries against the warehouse and validated the totals against the source tables.",
	"Fine-tuned the embedding model and compared retrieval quality against the baseline on the held-out set.",
}

// Deliberately weak proofs that should trip the integrity heuristics.
var suspiciousProofs = []string{
	"test test test placeholder",
	"asdf qwerty 123456",
	"done",
	"aaaaaaaaaaaaaaaaaaaaaa finished it",
	"lorem ipsum dolor sit amet fake work",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomIndex returns a uniform index in [0, n).
func randomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateSubmissions creates the configured number of submissions spread
// over a fixed user population.
func generateSubmissions(ctx context.Context, config *Config, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating submissions",
		logger.Int("numSubmissions", config.NumSubmissions),
		logger.Int("numUsers", config.NumUsers))

	// Pre-allocate the user population so standings checks can target
	// specific users later.
	userIDs := make([]string, config.NumUsers)
	for i := range userIDs {
		userIDs[i] = uuid.New().String()
	}

	subs := make([]Submission, config.NumSubmissions)

	type genResult struct {
		index int
		sub   Submission
		err   error
	}

	resultChan := make(chan genResult, config.NumSubmissions)

	workerCount := minInt(config.Workers, config.NumSubmissions)
	perWorker := config.NumSubmissions / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.NumSubmissions
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- genResult{index: i, err: ctx.Err()}
					return
				default:
					user := userIDs[randomIndex(len(userIDs))]
					resultChan <- genResult{index: i, sub: generateSingleSubmission(i, user, config.SuspiciousRate)}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumSubmissions; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during submission generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate submission %d: %w", result.index, result.err)
			}
			subs[result.index] = result.sub
		}
	}

	stats.SubmissionsGenerated = len(subs)
	logger.Get().Info(ctx, "generated submissions successfully", logger.Int("count", len(subs)))

	return subs, nil
}

// generateSingleSubmission creates one submission for the given user. A
// suspiciousRate fraction gets a proof drawn from the weak pool so the
// integrity screen has something to catch.
func generateSingleSubmission(index int, userID string, suspiciousRate float64) Submission {
	categories := skill.Categories()
	category := categories[randomIndex(len(categories))]
	shape := taskShapes[randomIndex(len(taskShapes))]

	proof := honestProofs[randomIndex(len(honestProofs))]
	strength := proofStrengths[randomIndex(len(proofStrengths))]
	if getRandomFloat() < suspiciousRate {
		proof = suspiciousProofs[randomIndex(len(suspiciousProofs))]
		strength = proofStrengths[0]
	}

	// Tag the proof so every submission body is distinct; identical proofs
	// from one user trip the duplicate heuristic.
	proof = proof + " (task " + strconv.Itoa(index) + ")"

	return Submission{
		SubmissionID:  uuid.New().String(),
		UserID:        userID,
		Skill:         string(category),
		TaskType:      shape.taskType,
		BasePoints:    shape.basePoints,
		MaxPoints:     shape.maxPoints,
		ProofStrength: strength,
		ProofText:     proof,
		TS:            time.Now().UTC().Format(time.RFC3339),
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
