package posture

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	// Default downward speed of box center (pixels per second) that starts a potential fall
	DefaultVelocityThreshold = 150.0
	// Default width/height ratio above which box is considered horizontal
	DefaultAspectRatioThreshold = 1.0
	// Default vertical jitter (pixels) still considered as "not moving"
	DefaultStillnessYThreshold = 5.0
	// Default seconds between potential fall and its confirmation
	DefaultStillnessTimeThreshold = 3.0

	// Sitting heuristic: minimal upward shift of the box center (pixels)
	sittingShiftY = 50.0
	// Sitting heuristic: maximal residual vertical speed (pixels per second)
	sittingMaxVelocityY = 5.0

	maxThresholdsFileSize = 1 * 1024 * 1024
)

// Thresholds holds tunable parameters of posture state machine
type Thresholds struct {
	// Downward speed sensitivity, pixels per second
	Velocity float64 `json:"velocity"`
	// Shape sensitivity to "lying" silhouette, width/height
	AspectRatio float64 `json:"aspect_ratio"`
	// Noise floor for "not moving", pixels
	StillnessY float64 `json:"stillness_y"`
	// Seconds of horizontal stillness required before fall is confirmed
	StillnessTime float64 `json:"stillness_time"`
}

// DefaultThresholds returns thresholds tuned for a single 640x480 camera at ~25 fps
func DefaultThresholds() Thresholds {
	return Thresholds{
		Velocity:      DefaultVelocityThreshold,
		AspectRatio:   DefaultAspectRatioThreshold,
		StillnessY:    DefaultStillnessYThreshold,
		StillnessTime: DefaultStillnessTimeThreshold,
	}
}

// Validate returns every problem found, combined into single error
func (th Thresholds) Validate() error {
	var err error
	if !(th.Velocity > 0) || math.IsInf(th.Velocity, 0) {
		err = multierr.Append(err, errors.Errorf("velocity threshold must be positive and finite, got %v", th.Velocity))
	}
	if !(th.AspectRatio > 0) || math.IsInf(th.AspectRatio, 0) {
		err = multierr.Append(err, errors.Errorf("aspect ratio threshold must be positive and finite, got %v", th.AspectRatio))
	}
	if !(th.StillnessY > 0) || math.IsInf(th.StillnessY, 0) {
		err = multierr.Append(err, errors.Errorf("stillness Y threshold must be positive and finite, got %v", th.StillnessY))
	}
	if !(th.StillnessTime >= 0) || math.IsInf(th.StillnessTime, 0) {
		err = multierr.Append(err, errors.Errorf("stillness time threshold must be non-negative and finite, got %v", th.StillnessTime))
	}
	return err
}

// LoadThresholds reads thresholds from JSON file.
// Fields omitted from the file keep their default values.
func LoadThresholds(path string) (Thresholds, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Thresholds{}, errors.Errorf("thresholds file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return Thresholds{}, errors.Wrap(err, "Can't stat thresholds file")
	}
	if fileInfo.Size() > maxThresholdsFileSize {
		return Thresholds{}, errors.Errorf("thresholds file too large: %d bytes (max %d)", fileInfo.Size(), maxThresholdsFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Thresholds{}, errors.Wrap(err, "Can't read thresholds file")
	}
	th := DefaultThresholds()
	if err := json.Unmarshal(data, &th); err != nil {
		return Thresholds{}, errors.Wrap(err, "Can't parse thresholds JSON")
	}
	if err := th.Validate(); err != nil {
		return Thresholds{}, errors.Wrap(err, "Invalid thresholds")
	}
	return th, nil
}
