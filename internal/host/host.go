// Package host defines the narrow contract the out-of-scope host-game
// integration layer must satisfy: player identity, ping, gamemode, and
// on-ground/movement state are all sourced from outside this module.
package host

import "github.com/MacMoment/ac/internal/mitigation"

// PlayerStatus is supplied by the host alongside every ingested event.
// The engine never queries gamemode or capability state itself.
type PlayerStatus = mitigation.PlayerStatus

// PunishmentExecutor is the thin, out-of-scope glue that actually kicks
// or mutes a player. internal/dispatcher calls through an instance of
// this on its worker goroutines; nothing in the hot ingest path calls it
// directly.
type PunishmentExecutor interface {
	Kick(playerId string, reason string) error
	TempMute(playerId string, reason string, durationMs int64) error
}

// AlertSink is the thin, out-of-scope glue that broadcasts an alert's
// rendered text to the host (chat, console, webhook).
type AlertSink interface {
	SendAlert(text string) error
}
