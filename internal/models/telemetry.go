package models

// TelemetryInput is an immutable snapshot of one movement packet for a
// single player.
type TelemetryInput struct {
	DX, DY, DZ float64 // position deltas since the previous event, world units

	Yaw, Pitch           float64 // absolute rotation, degrees
	DeltaYaw, DeltaPitch float64 // normalized to [-180, 180]

	OnGround    bool
	InVehicle   bool
	Teleporting bool
	Swimming    bool
	Gliding     bool
	Climbing    bool

	Ping     float64 // round-trip latency, ms, as reported by the host
	NanoTime int64   // monotonic timestamp from the clock
	TickDelta int64  // nanoseconds since the previous event for this player, 0 for the first
}

// HasSpecialMovement reports whether any flag other than OnGround is set.
// Checks that analyze raw physics skip events flagged this way, since
// vehicles/swimming/gliding/climbing/teleporting override normal physics.
func (t TelemetryInput) HasSpecialMovement() bool {
	return t.InVehicle || t.Teleporting || t.Swimming || t.Gliding || t.Climbing
}
