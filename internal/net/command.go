package net

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterkuimelis/netbreach/internal/game"
)

// ErrHelp is returned by ParseCommand for "help"; the REPL prints Usage.
var ErrHelp = errors.New("help requested")

// Usage lists the REPL commands.
const Usage = `Commands:
  new                 start a new run
  select N | deselect select hand card N
  rotate              turn the selected pattern 90° clockwise
  play N              play hand card N
  queue N             move pending effect N to the end of the queue
  confirm             confirm the effect order
  cut X Y             resolve the head CUT anchored at (X, Y)
  source X Y          pick the reprogram source cell
  reprogram X Y [X2 Y2]
                      reprogram onto (X, Y) from the picked source, or (X, Y) -> (X2, Y2)
  reset               resolve an immediate effect at the head of the queue
  finish              finish (or abandon) the card being resolved
  end                 end the turn
  reboot N            emergency reboot with SYS/RESET card N
  state               show the board again
  quit                leave`

// ParseCommand turns a REPL line into a client message.
func ParseCommand(line string) (ClientMessage, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ClientMessage{}, errors.New("empty command")
	}
	args := fields[1:]
	nums := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return ClientMessage{}, fmt.Errorf("%q is not a number", a)
		}
		nums = append(nums, n)
	}
	need := func(counts ...int) error {
		for _, c := range counts {
			if len(nums) == c {
				return nil
			}
		}
		return fmt.Errorf("%s takes %v numbers", fields[0], counts)
	}
	action := func(kind game.ActionKind) ClientMessage {
		return ClientMessage{Type: MsgAction, Action: kind.String()}
	}

	switch fields[0] {
	case "help", "?":
		return ClientMessage{}, ErrHelp
	case "quit", "exit":
		return ClientMessage{Type: MsgQuit}, nil
	case "state", "look":
		return ClientMessage{Type: MsgSync}, nil
	case "new":
		return action(game.ActionInitializeGame), need(0)
	case "deselect":
		return action(game.ActionSelectCard), need(0)
	case "select", "play", "reboot":
		if err := need(1); err != nil {
			return ClientMessage{}, err
		}
		kind := map[string]game.ActionKind{
			"select": game.ActionSelectCard,
			"play":   game.ActionPlayCard,
			"reboot": game.ActionReboot,
		}[fields[0]]
		msg := action(kind)
		msg.Card = nums[0]
		return msg, nil
	case "rotate":
		return action(game.ActionRotateCard), need(0)
	case "queue":
		if err := need(1); err != nil {
			return ClientMessage{}, err
		}
		msg := action(game.ActionQueueEffect)
		msg.Effect = nums[0]
		return msg, nil
	case "confirm":
		return action(game.ActionConfirmEffectOrder), need(0)
	case "cut", "source":
		if err := need(2); err != nil {
			return ClientMessage{}, err
		}
		kind := game.ActionResolveCut
		if fields[0] == "source" {
			kind = game.ActionSelectReprogramSource
		}
		msg := action(kind)
		msg.X, msg.Y = nums[0], nums[1]
		return msg, nil
	case "reprogram":
		if err := need(2, 4); err != nil {
			return ClientMessage{}, err
		}
		msg := action(game.ActionResolveReprogram)
		if len(nums) == 2 {
			msg.Dest = &game.Coordinate{X: nums[0], Y: nums[1]}
		} else {
			msg.Source = &game.Coordinate{X: nums[0], Y: nums[1]}
			msg.Dest = &game.Coordinate{X: nums[2], Y: nums[3]}
		}
		return msg, nil
	case "reset":
		return action(game.ActionResolveSystemReset), need(0)
	case "finish":
		return action(game.ActionFinishCardResolution), need(0)
	case "end":
		return action(game.ActionEndTurn), need(0)
	}
	return ClientMessage{}, fmt.Errorf("unknown command %q (try help)", fields[0])
}

// ToAction resolves an action message against the current snapshot: hand
// and pending indices are 1-based.
func ToAction(msg ClientMessage, s game.Snapshot) (game.Action, error) {
	kind, err := game.ParseActionKind(msg.Action)
	if err != nil {
		return game.Action{}, err
	}

	cardID := func() (string, error) {
		if msg.CardID != "" {
			return msg.CardID, nil
		}
		if msg.Card < 1 || msg.Card > len(s.Hand) {
			return "", fmt.Errorf("no card %d in hand (have %d)", msg.Card, len(s.Hand))
		}
		return s.Hand[msg.Card-1].ID, nil
	}

	switch kind {
	case game.ActionSelectCard:
		if msg.Card == 0 && msg.CardID == "" {
			return game.DeselectCard(), nil
		}
		id, err := cardID()
		if err != nil {
			return game.Action{}, err
		}
		return game.SelectCard(id), nil
	case game.ActionPlayCard, game.ActionReboot:
		id, err := cardID()
		if err != nil {
			return game.Action{}, err
		}
		if kind == game.ActionReboot {
			return game.Reboot(id), nil
		}
		return game.PlayCard(id), nil
	case game.ActionQueueEffect:
		if msg.Effect < 1 || msg.Effect > len(s.PendingEffects) {
			return game.Action{}, fmt.Errorf("no pending effect %d (have %d)", msg.Effect, len(s.PendingEffects))
		}
		return game.QueueEffect(msg.Effect - 1), nil
	case game.ActionResolveCut:
		return game.ResolveCut(msg.X, msg.Y), nil
	case game.ActionSelectReprogramSource:
		return game.SelectReprogramSource(msg.X, msg.Y), nil
	case game.ActionResolveReprogram:
		if msg.Dest == nil {
			return game.Action{}, errors.New("reprogram needs a destination")
		}
		if msg.Source != nil {
			return game.ResolveReprogram(*msg.Source, *msg.Dest), nil
		}
		return game.ResolveReprogramTo(*msg.Dest), nil
	}
	return game.Action{Kind: kind}, nil
}
