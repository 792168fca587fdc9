// Package worker runs the asynchronous evaluation pipeline: integrity
// check, scoring, history append and standings update.
package worker

import "github.com/cabe-arena/arena/pkg/logger"

// Option applies a configuration option to the SubmissionWorker.
type Option func(*SubmissionWorker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *SubmissionWorker) {
		if name != "" {
			w.name = name
			w.logger = logger.Get().Named(name)
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *SubmissionWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
