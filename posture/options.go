package posture

import (
	"go.uber.org/zap"
)

type options struct {
	logger      *zap.Logger
	smoothingDt float64
	maxTracks   int
}

// Option configures Tracker
type Option func(*options)

// WithLogger sets logger for status transitions. Default is no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithKalmanSmoothing enables per-track Kalman filtering of box centers.
// dt is nominal time step between observations (e.g. 1/25 for 25 fps). Non-positive dt disables smoothing
func WithKalmanSmoothing(dt float64) Option {
	return func(o *options) {
		o.smoothingDt = dt
	}
}

// WithMaxTracks limits number of stored tracks. When limit is reached, the least recently
// observed track is evicted to make room for a new one. Zero means no limit
func WithMaxTracks(n int) Option {
	return func(o *options) {
		o.maxTracks = n
	}
}

func defaultOptions() options {
	return options{
		logger:      zap.NewNop(),
		smoothingDt: 0,
		maxTracks:   0,
	}
}
