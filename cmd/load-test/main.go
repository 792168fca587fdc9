package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/cabe-arena/arena/internal/loadgen"
)

// Default configuration constants.
const (
	defaultNumSubmissions = 10000
	defaultNumUsers       = 1000
	defaultTopN           = 50
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultSuspicious     = 0.05
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL        = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numSubmissions = flag.Int("submissions", defaultNumSubmissions, "Number of submissions to generate and post")
		numUsers       = flag.Int("users", defaultNumUsers, "Number of distinct users to spread submissions over")
		suspicious     = flag.Float64("suspicious", defaultSuspicious, "Fraction of submissions given deliberately weak proofs")
		topN           = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		workers        = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile     = flag.String("output", "", "Output file for generated submissions (default: generated_submissions_TIMESTAMP.json)")
		logFile        = flag.String("log", "", "Log file for run output (default: loadgen_TIMESTAMP.log)")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
		help           = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := loadgen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &loadgen.Config{
		BaseURL:        *baseURL,
		NumSubmissions: *numSubmissions,
		NumUsers:       *numUsers,
		TopN:           *topN,
		Workers:        *workers,
		Timeout:        *timeout,
		SuspiciousRate: *suspicious,
		OutputFile:     *outputFile,
		LogFile:        *logFile,
		Verbose:        *verbose,
	}

	if err := loadgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		return
	}
}
