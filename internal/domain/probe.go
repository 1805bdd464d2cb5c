package domain

import "time"

// SweepProbe is the low-fidelity metadata a raw file open can recover without
// normalizing the whole sweep. The grouper uses it for both its metadata path
// (SweepCount) and its elevation-heuristic fallback.
type SweepProbe struct {
	// SweepCount is the volume's sweep count as declared by the file, or 0
	// when the file does not say.
	SweepCount int

	// FixedAngle is the sweep's elevation angle; NaN when unreadable.
	FixedAngle float64

	// StartTime is the sweep's start timestamp; zero when unreadable.
	StartTime time.Time
}
