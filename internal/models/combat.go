package models

import "github.com/google/uuid"

// CombatInput is an immutable snapshot of one attack event for a single
// player.
type CombatInput struct {
	AttackerX, AttackerY, AttackerZ float64
	AttackerYaw, AttackerPitch      float64

	// PreAttack rotation is the attacker's rotation one frame before the
	// attack, used for snap-angle detection.
	PreAttackYaw, PreAttackPitch float64

	TargetX, TargetY, TargetZ float64
	TargetId                  uuid.UUID
	HasTarget                 bool

	Hit      bool
	Critical bool
	Damage   float64

	TimeSinceLastAttackMs float64
	Ping                  float64
	NanoTime              int64
}
