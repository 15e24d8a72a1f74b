package game

import (
	"fmt"
	"strings"
)

// ActionKind tags a dispatched action.
type ActionKind int

const (
	ActionInitializeGame ActionKind = iota
	ActionSelectCard
	ActionRotateCard
	ActionPlayCard
	ActionQueueEffect
	ActionConfirmEffectOrder
	ActionSelectReprogramSource
	ActionResolveCut
	ActionResolveReprogram
	ActionResolveSystemReset
	ActionFinishCardResolution
	ActionEndTurn
	ActionReboot
)

var actionNames = map[ActionKind]string{
	ActionInitializeGame:        "INITIALIZE_GAME",
	ActionSelectCard:            "SELECT_CARD",
	ActionRotateCard:            "ROTATE_CARD",
	ActionPlayCard:              "PLAY_CARD",
	ActionQueueEffect:           "QUEUE_EFFECT",
	ActionConfirmEffectOrder:    "CONFIRM_EFFECT_ORDER",
	ActionSelectReprogramSource: "SELECT_REPROGRAM_SOURCE",
	ActionResolveCut:            "RESOLVE_CUT",
	ActionResolveReprogram:      "RESOLVE_REPROGRAM",
	ActionResolveSystemReset:    "RESOLVE_SYSTEM_RESET",
	ActionFinishCardResolution:  "FINISH_CARD_RESOLUTION",
	ActionEndTurn:               "END_TURN",
	ActionReboot:                "REBOOT",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseActionKind accepts the canonical name in any case, with '-' or '_'.
func ParseActionKind(s string) (ActionKind, error) {
	norm := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for k, name := range actionNames {
		if name == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Action is a discrete player or UI request.
type Action struct {
	Kind ActionKind

	CardID      string   // SELECT_CARD, PLAY_CARD, REBOOT
	Effects     []Effect // PLAY_CARD; nil means the card's own effects
	EffectIndex int      // QUEUE_EFFECT: index into pending effects

	X, Y    int     // RESOLVE_CUT anchor, SELECT_REPROGRAM_SOURCE cell
	Pattern Pattern // RESOLVE_CUT; nil means the head effect's pattern

	Source *Coordinate // RESOLVE_REPROGRAM; nil means the selected source
	Dest   Coordinate  // RESOLVE_REPROGRAM
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSelectCard, ActionPlayCard, ActionReboot:
		return fmt.Sprintf("%s(%s)", a.Kind, a.CardID)
	case ActionQueueEffect:
		return fmt.Sprintf("%s(%d)", a.Kind, a.EffectIndex)
	case ActionResolveCut, ActionSelectReprogramSource:
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.X, a.Y)
	case ActionResolveReprogram:
		if a.Source != nil {
			return fmt.Sprintf("%s(%v→%v)", a.Kind, *a.Source, a.Dest)
		}
		return fmt.Sprintf("%s(→%v)", a.Kind, a.Dest)
	default:
		return a.Kind.String()
	}
}

// --- Constructors ---

func InitializeGame() Action          { return Action{Kind: ActionInitializeGame} }
func SelectCard(cardID string) Action { return Action{Kind: ActionSelectCard, CardID: cardID} }
func DeselectCard() Action            { return Action{Kind: ActionSelectCard} }
func RotateCard() Action              { return Action{Kind: ActionRotateCard} }
func PlayCard(cardID string) Action   { return Action{Kind: ActionPlayCard, CardID: cardID} }
func QueueEffect(index int) Action    { return Action{Kind: ActionQueueEffect, EffectIndex: index} }
func ConfirmEffectOrder() Action      { return Action{Kind: ActionConfirmEffectOrder} }
func ResolveCut(x, y int) Action      { return Action{Kind: ActionResolveCut, X: x, Y: y} }
func ResolveSystemReset() Action      { return Action{Kind: ActionResolveSystemReset} }
func FinishCardResolution() Action    { return Action{Kind: ActionFinishCardResolution} }
func EndTurn() Action                 { return Action{Kind: ActionEndTurn} }
func Reboot(cardID string) Action     { return Action{Kind: ActionReboot, CardID: cardID} }
func SelectReprogramSource(x, y int) Action {
	return Action{Kind: ActionSelectReprogramSource, X: x, Y: y}
}

// ResolveReprogram swaps or moves src onto dst.
func ResolveReprogram(src, dst Coordinate) Action {
	return Action{Kind: ActionResolveReprogram, Source: &src, Dest: dst}
}

// ResolveReprogramTo uses the previously selected source cell.
func ResolveReprogramTo(dst Coordinate) Action {
	return Action{Kind: ActionResolveReprogram, Dest: dst}
}
