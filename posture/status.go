package posture

import (
	"image/color"

	"github.com/pkg/errors"
)

// Status is posture classification of a single track
type Status uint16

const (
	// StatusStanding is the initial status of every track and the fallback classification
	StatusStanding Status = iota
	// StatusSitting means the box center moved up noticeably and settled
	StatusSitting
	// StatusLying means the box is wider than tall
	StatusLying
	// StatusPotentialFall means a fast downward motion was seen and confirmation is pending
	StatusPotentialFall
	// StatusFallDetected is terminal until the track is reset
	StatusFallDetected
)

var statusNames = [...]string{
	StatusStanding:      "Standing",
	StatusSitting:       "Sitting",
	StatusLying:         "Lying",
	StatusPotentialFall: "Potential Fall",
	StatusFallDetected:  "Fall Detected!",
}

// Statuses returns every status in declaration order
func Statuses() []Status {
	return []Status{StatusStanding, StatusSitting, StatusLying, StatusPotentialFall, StatusFallDetected}
}

// String returns human-readable label (the one drawn over the box)
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Unknown"
}

// ParseStatus is inverse of String
func ParseStatus(label string) (Status, error) {
	for i, name := range statusNames {
		if name == label {
			return Status(i), nil
		}
	}
	return StatusStanding, errors.Errorf("unknown status %q", label)
}

// IsAlarm reports whether status should be highlighted to an operator
func (s Status) IsAlarm() bool {
	switch s {
	case StatusLying, StatusPotentialFall, StatusFallDetected:
		return true
	default:
		return false
	}
}

// Color returns render color for the status: green family for upright postures,
// red family for Lying and both fall stages.
func (s Status) Color() color.RGBA {
	switch s {
	case StatusStanding:
		return color.RGBA{R: 0, G: 255, B: 0, A: 255}
	case StatusSitting:
		return color.RGBA{R: 0, G: 200, B: 100, A: 255}
	case StatusLying:
		return color.RGBA{R: 255, G: 0, B: 0, A: 255}
	case StatusPotentialFall:
		return color.RGBA{R: 255, G: 96, B: 0, A: 255}
	case StatusFallDetected:
		return color.RGBA{R: 200, G: 0, B: 0, A: 255}
	default:
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
}
