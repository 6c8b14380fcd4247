// Package posture classifies posture and fall status of tracked humans from per-frame bounding boxes.
//
// Tracker keeps a small state machine per track ID:
//
//	Standing / Sitting / Lying --(fast descent)--> Potential Fall
//	Potential Fall --(upright box)--> Standing
//	Potential Fall --(horizontal and still for StillnessTime)--> Fall Detected!
//
// Fall Detected! is kept until Tracker.Reset is called for the track.
// Track IDs must come from upstream association stage: feeding several people under one ID
// merges their motion into a single track.
package posture
