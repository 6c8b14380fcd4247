package posture

// TrackState is motion and posture memory of a single track
type TrackState struct {
	// Vertical midpoint of the most recently seen box
	LastCenterY float64
	// Timestamp of the most recent observation, seconds
	LastTimestamp float64
	Status        Status
	// Start of current potential fall episode. Meaningful only when FallArmed is set
	FallStart float64
	FallArmed bool
}

// FallStartTime returns start of current potential fall episode, if any
func (state TrackState) FallStartTime() (float64, bool) {
	if !state.FallArmed {
		return 0, false
	}
	return state.FallStart, true
}

func (state *TrackState) armFall(timestamp float64) {
	state.FallStart = timestamp
	state.FallArmed = true
}

func (state *TrackState) clearFall() {
	state.FallStart = 0
	state.FallArmed = false
}

// Observation is single detection of a tracked subject
type Observation[K comparable] struct {
	TrackID   K
	BBox      BBox
	Timestamp float64
}

// motion holds quantities derived from the previous and the current observation
type motion struct {
	dy           float64
	velocityY    float64
	aspectRatio  float64
	isFastFall   bool
	isHorizontal bool
	isStill      bool
}

func measureMotion(prev TrackState, bbox BBox, centerY, timestamp float64, th Thresholds) motion {
	dt := timestamp - prev.LastTimestamp
	dy := centerY - prev.LastCenterY
	velocityY := 0.0
	if dt > 0 {
		velocityY = dy / dt
	}
	aspectRatio := bbox.AspectRatio()
	return motion{
		dy:           dy,
		velocityY:    velocityY,
		aspectRatio:  aspectRatio,
		isFastFall:   velocityY > th.Velocity,
		isHorizontal: aspectRatio > th.AspectRatio,
		isStill:      absFloat64(dy) < th.StillnessY,
	}
}

// advance applies one observation to the state machine and returns the next state.
// Order matters: fast descent is checked first, so it can pre-empt the normal
// classification and be resolved by the potential fall rules in the same call.
func advance(prev TrackState, bbox BBox, centerY, timestamp float64, th Thresholds) TrackState {
	m := measureMotion(prev, bbox, centerY, timestamp, th)
	next := prev

	if m.isFastFall && next.Status != StatusPotentialFall && next.Status != StatusFallDetected {
		next.Status = StatusPotentialFall
		next.armFall(timestamp)
	}

	switch next.Status {
	case StatusPotentialFall:
		if m.isHorizontal {
			// Timer keeps counting from arm time even if subject moves a bit while down
			if m.isStill && timestamp-next.FallStart >= th.StillnessTime {
				next.Status = StatusFallDetected
				next.clearFall()
			}
		} else {
			// Upright again before confirmation: false alarm
			next.Status = StatusStanding
			next.clearFall()
		}
	case StatusFallDetected:
		// Terminal until Reset
	default:
		switch {
		case m.isHorizontal:
			next.Status = StatusLying
		case centerY < prev.LastCenterY-sittingShiftY && absFloat64(m.velocityY) < sittingMaxVelocityY:
			next.Status = StatusSitting
		default:
			next.Status = StatusStanding
		}
		next.clearFall()
	}

	next.LastCenterY = centerY
	next.LastTimestamp = timestamp
	return next
}

func absFloat64(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}
