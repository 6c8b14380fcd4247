package posture

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transition describes change of track status
type Transition[K comparable] struct {
	ID        uuid.UUID
	TrackID   K
	From      Status
	To        Status
	Timestamp float64
}

type trackRecord struct {
	state    TrackState
	smoother *centerSmoother
}

// Tracker classifies posture of externally tracked subjects.
// K is type of track identifier supplied by upstream association (MOT) stage.
// Tracker is safe for concurrent use.
type Tracker[K comparable] struct {
	mu sync.Mutex
	// Main storage
	tracks     map[K]*trackRecord
	thresholds Thresholds
	// Nominal time step for Kalman smoothing. Zero disables smoothing
	smoothingDt float64
	// Max number of stored tracks. Zero means unlimited
	maxTracks int
	logger    *zap.Logger
	handlers  []func(Transition[K])
}

// NewTrackerDefault creates tracker with default thresholds
func NewTrackerDefault[K comparable](opts ...Option) *Tracker[K] {
	tracker, _ := NewTracker[K](DefaultThresholds(), opts...)
	return tracker
}

// NewTracker creates tracker with custom thresholds. Thresholds are validated
func NewTracker[K comparable](thresholds Thresholds, opts ...Option) (*Tracker[K], error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Tracker[K]{
		tracks:      make(map[K]*trackRecord),
		thresholds:  thresholds,
		smoothingDt: o.smoothingDt,
		maxTracks:   o.maxTracks,
		logger:      o.logger,
	}, nil
}

// Thresholds returns thresholds tracker was created with
func (tracker *Tracker[K]) Thresholds() Thresholds {
	return tracker.thresholds
}

// OnTransition registers handler called on every status change of any track.
// Handlers are called synchronously after the tracker lock is released.
func (tracker *Tracker[K]) OnTransition(handler func(Transition[K])) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.handlers = append(tracker.handlers, handler)
}

// Process consumes single observation and returns current status of the track.
// First observation of a track always yields StatusStanding.
func (tracker *Tracker[K]) Process(trackID K, bbox BBox, timestamp float64) Status {
	tracker.mu.Lock()
	status, transition := tracker.process(trackID, bbox, timestamp)
	handlers := tracker.handlers
	tracker.mu.Unlock()
	if transition != nil {
		for _, handler := range handlers {
			handler(*transition)
		}
	}
	return status
}

// ProcessFrame processes observations of a single frame in the given order
func (tracker *Tracker[K]) ProcessFrame(observations []Observation[K]) []Status {
	statuses := make([]Status, len(observations))
	for i, obs := range observations {
		statuses[i] = tracker.Process(obs.TrackID, obs.BBox, obs.Timestamp)
	}
	return statuses
}

func (tracker *Tracker[K]) process(trackID K, bbox BBox, timestamp float64) (Status, *Transition[K]) {
	center := bbox.Center()
	record, ok := tracker.tracks[trackID]
	if !ok {
		tracker.makeRoom()
		record = &trackRecord{
			state: TrackState{
				LastCenterY:   center.Y,
				LastTimestamp: timestamp,
				Status:        StatusStanding,
			},
		}
		if tracker.smoothingDt > 0 {
			record.smoother = newCenterSmoother(center, tracker.smoothingDt)
		}
		tracker.tracks[trackID] = record
		tracker.logger.Debug("New track", zap.Any("track", trackID), zap.Float64("ts", timestamp))
		return StatusStanding, nil
	}

	if record.smoother != nil {
		smoothed, err := record.smoother.Smooth(center)
		if err != nil {
			tracker.logger.Warn("Smoothing failed, using raw center", zap.Any("track", trackID), zap.Error(err))
		} else {
			center = smoothed
		}
	}

	prev := record.state
	record.state = advance(prev, bbox, center.Y, timestamp, tracker.thresholds)
	if record.state.Status == prev.Status {
		return record.state.Status, nil
	}
	return record.state.Status, tracker.transition(trackID, prev.Status, record.state.Status, timestamp)
}

func (tracker *Tracker[K]) transition(trackID K, from, to Status, timestamp float64) *Transition[K] {
	fields := []zap.Field{
		zap.Any("track", trackID),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Float64("ts", timestamp),
	}
	if to == StatusFallDetected {
		tracker.logger.Warn("Fall confirmed", fields...)
	} else {
		tracker.logger.Debug("Status changed", fields...)
	}
	return &Transition[K]{
		ID:        uuid.New(),
		TrackID:   trackID,
		From:      from,
		To:        to,
		Timestamp: timestamp,
	}
}

// makeRoom evicts the least recently observed track when capacity is reached
func (tracker *Tracker[K]) makeRoom() {
	if tracker.maxTracks <= 0 || len(tracker.tracks) < tracker.maxTracks {
		return
	}
	var oldestID K
	found := false
	oldest := 0.0
	for trackID, record := range tracker.tracks {
		if !found || record.state.LastTimestamp < oldest {
			oldestID = trackID
			oldest = record.state.LastTimestamp
			found = true
		}
	}
	if found {
		delete(tracker.tracks, oldestID)
		tracker.logger.Debug("Track evicted: capacity reached", zap.Any("track", oldestID), zap.Int("max_tracks", tracker.maxTracks))
	}
}

// Reset clears status of the track back to StatusStanding (e.g. after confirmed fall has been handled).
// Last position and timestamp are kept, so next observation is evaluated against fresh deltas.
// Returns false if track is unknown.
func (tracker *Tracker[K]) Reset(trackID K) bool {
	tracker.mu.Lock()
	record, ok := tracker.tracks[trackID]
	if !ok {
		tracker.mu.Unlock()
		return false
	}
	prev := record.state.Status
	record.state.Status = StatusStanding
	record.state.clearFall()
	var transition *Transition[K]
	if prev != StatusStanding {
		transition = tracker.transition(trackID, prev, StatusStanding, record.state.LastTimestamp)
	}
	handlers := tracker.handlers
	tracker.mu.Unlock()
	if transition != nil {
		for _, handler := range handlers {
			handler(*transition)
		}
	}
	return true
}

// Evict drops state of the track. Next observation with the same ID starts a new track.
// Returns false if track is unknown.
func (tracker *Tracker[K]) Evict(trackID K) bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if _, ok := tracker.tracks[trackID]; !ok {
		return false
	}
	delete(tracker.tracks, trackID)
	return true
}

// EvictStale drops tracks which have not been observed for more than maxAge seconds before now.
// Returns number of evicted tracks.
func (tracker *Tracker[K]) EvictStale(now, maxAge float64) int {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	evicted := 0
	for trackID, record := range tracker.tracks {
		if record.state.LastTimestamp < now-maxAge {
			delete(tracker.tracks, trackID)
			evicted++
		}
	}
	if evicted > 0 {
		tracker.logger.Debug("Stale tracks evicted", zap.Int("count", evicted), zap.Float64("now", now))
	}
	return evicted
}

// State returns copy of the track state
func (tracker *Tracker[K]) State(trackID K) (TrackState, bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	record, ok := tracker.tracks[trackID]
	if !ok {
		return TrackState{}, false
	}
	return record.state, true
}

// Len returns number of stored tracks
func (tracker *Tracker[K]) Len() int {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return len(tracker.tracks)
}
