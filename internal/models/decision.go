package models

// DecisionAction is the closed set of actions the mitigation policy can
// emit for one event.
type DecisionAction int

const (
	ActionNone DecisionAction = iota
	ActionFlag
	ActionAlert
	ActionPunish
)

func (a DecisionAction) String() string {
	switch a {
	case ActionNone:
		return "NONE"
	case ActionFlag:
		return "FLAG"
	case ActionAlert:
		return "ALERT"
	case ActionPunish:
		return "PUNISH"
	default:
		return "UNKNOWN"
	}
}

// Decision is the mitigation policy's output for one event. A NONE
// decision carries no violation. Violation carries nothing
// action-specific; all action semantics live on Decision.
type Decision struct {
	Action    DecisionAction
	Violation *Violation
	Reason    string
}

// NoneDecision constructs a NONE decision with the given human-readable
// reason (e.g. which exemption or cooldown suppressed it).
func NoneDecision(reason string) Decision {
	return Decision{Action: ActionNone, Reason: reason}
}
