package model

// ActionKind identifies a mutation requested by a player
type ActionKind string

const (
	ActionJoin          ActionKind = "join"
	ActionStart         ActionKind = "start"
	ActionRollDice      ActionKind = "rollDice"
	ActionHoldDice      ActionKind = "holdDice"
	ActionScoreCategory ActionKind = "scoreCategory"
)

// ParseActionKind validates an action name supplied by a client
func ParseActionKind(name string) (ActionKind, error) {
	if name == "" {
		return "", ErrActionRequired
	}
	switch kind := ActionKind(name); kind {
	case ActionJoin, ActionStart, ActionRollDice, ActionHoldDice, ActionScoreCategory:
		return kind, nil
	default:
		return "", ErrInvalidAction
	}
}

// Action is a player request routed through the turn state machine
type Action struct {
	Kind        ActionKind
	Category    string // scoreCategory only
	DiceIndexes []int  // holdDice only
}
