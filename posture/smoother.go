package posture

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// centerSmoother filters noisy box centers of a single track with 2D Kalman filter
type centerSmoother struct {
	kf *kalman_filter.Kalman2D
}

func newCenterSmoother(initial Point, dt float64) *centerSmoother {
	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	kf := kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(initial.X, initial.Y))
	return &centerSmoother{
		kf: kf,
	}
}

// Smooth executes predict and update steps for the measured center and returns filtered center
func (s *centerSmoother) Smooth(measured Point) (Point, error) {
	s.kf.Predict()
	err := s.kf.Update(measured.X, measured.Y)
	if err != nil {
		return measured, errors.Wrap(err, "Can't update center smoother")
	}
	stateX, stateY := s.kf.GetState()
	return Point{X: stateX, Y: stateY}, nil
}
