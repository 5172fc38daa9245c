package batch

import "log/slog"

// Option is a functional option for configuring a run.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for run lifecycle events. Defaults to
// slog.Default(); every log line carries the run's generated ID.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
