// Package features derives the per-event Features from a TelemetryInput
// and the player's context. Extract is a pure function of its inputs
// except for the per-event bookkeeping (ping/packet-delta windows, the
// three player-level EWMAs) it owns on the context, matching the ingest
// pipeline's call order: append telemetry, extract features, append
// features.
package features

import (
	"math"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

const (
	nominalTickIntervalMs = 50.0
	lagTickDeltaNanos     = 200_000_000 // 200ms
	jitterSampleWindow    = 10
	jitterMinSamples      = 5
)

// Extract assumes t has already been pushed onto ctx.TelemetryHistory
// (so TelemetryHistory.Get(0) == t) and that ctx.FeatureHistory still
// holds the previous event's Features at Peek().
func Extract(t models.TelemetryInput, ctx *state.PlayerContext) models.Features {
	horizSpeed := math.Sqrt(t.DX*t.DX + t.DZ*t.DZ)
	vertSpeed := t.DY
	speed3D := math.Sqrt(t.DX*t.DX + t.DY*t.DY + t.DZ*t.DZ)

	var prevHorizSpeed, prevVertSpeed float64
	prevFeatures, hasPrevFeatures := ctx.FeatureHistory.Peek()
	if hasPrevFeatures {
		prevHorizSpeed = prevFeatures.HorizSpeed
		prevVertSpeed = prevFeatures.VertSpeed
	}
	horizAccel := horizSpeed - prevHorizSpeed
	vertAccel := vertSpeed - prevVertSpeed

	rotationSpeed := math.Sqrt(t.DeltaYaw*t.DeltaYaw + t.DeltaPitch*t.DeltaPitch)

	var prevDeltaYaw, prevDeltaPitch float64
	if prevTelemetry, ok := ctx.TelemetryHistory.Get(1); ok {
		prevDeltaYaw = prevTelemetry.DeltaYaw
		prevDeltaPitch = prevTelemetry.DeltaPitch
	}
	yawAccel := t.DeltaYaw - prevDeltaYaw
	pitchAccel := t.DeltaPitch - prevDeltaPitch

	jitterScore := computeJitter(ctx, horizSpeed)

	ctx.PingWindow.Add(t.Ping)
	if t.TickDelta > 0 {
		ctx.PacketDeltaWindow.Add(float64(t.TickDelta) / 1e6)
	}

	timingSkew := computeTimingSkew(ctx)

	ctx.PingEWMA.Update(t.Ping)
	pingNormalized := ctx.PingEWMA.Get()

	medianPing := ctx.PingWindow.Median()
	pingMad := ctx.PingWindow.MAD()
	isLagging := (pingMad > 0 && t.Ping > medianPing+3*pingMad) || t.TickDelta > lagTickDeltaNanos

	ctx.HorizSpeedEWMA.Update(horizSpeed)
	ctx.HorizAccelEWMA.Update(horizAccel)

	return models.Features{
		HorizSpeed:     horizSpeed,
		VertSpeed:      vertSpeed,
		Speed3D:        speed3D,
		HorizAccel:     horizAccel,
		VertAccel:      vertAccel,
		RotationSpeed:  rotationSpeed,
		YawAccel:       yawAccel,
		PitchAccel:     pitchAccel,
		JitterScore:    jitterScore,
		TimingSkew:     timingSkew,
		PingNormalized: pingNormalized,
		IsLagging:      isLagging,
		SampleCount:    ctx.TelemetryHistory.Size(),
	}
}

// computeJitter is a standard-deviation-like measure of consecutive
// horizontal-speed differences over up to the newest 10 samples
// (including the just-computed current speed); 0 if fewer than 5
// samples are available.
func computeJitter(ctx *state.PlayerContext, currentHorizSpeed float64) float64 {
	all := ctx.FeatureHistory.ToArray()
	start := 0
	if len(all) > jitterSampleWindow-1 {
		start = len(all) - (jitterSampleWindow - 1)
	}
	speeds := make([]float64, 0, jitterSampleWindow)
	for _, f := range all[start:] {
		speeds = append(speeds, f.HorizSpeed)
	}
	speeds = append(speeds, currentHorizSpeed)

	if len(speeds) < jitterMinSamples {
		return 0
	}

	diffs := make([]float64, 0, len(speeds)-1)
	for i := 1; i < len(speeds); i++ {
		diffs = append(diffs, speeds[i]-speeds[i-1])
	}
	return history.StdDev(diffs)
}

func computeTimingSkew(ctx *state.PlayerContext) float64 {
	if ctx.PacketDeltaWindow.Size() == 0 {
		return 0
	}
	medianDelta := ctx.PacketDeltaWindow.Median()
	medianPing := ctx.PingWindow.Median()
	expected := nominalTickIntervalMs + 0.02*medianPing
	if expected == 0 {
		return 0
	}
	return math.Abs(medianDelta-expected) / expected
}
