package models

// Features are the derived, per-event quantities the checks analyze.
// Immutable once built by the feature extractor.
type Features struct {
	HorizSpeed, VertSpeed, Speed3D float64
	HorizAccel, VertAccel         float64
	RotationSpeed                  float64
	YawAccel, PitchAccel           float64

	JitterScore    float64
	TimingSkew     float64
	PingNormalized float64
	IsLagging      bool

	SampleCount int
}
