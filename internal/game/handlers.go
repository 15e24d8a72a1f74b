package game

import (
	"github.com/peterkuimelis/netbreach/internal/log"
	"go.uber.org/zap"
)

// initialize builds a fresh session from the rules and the chosen deck.
func (r *referee) initialize(s Snapshot, deck DeckEntry, shuffle bool) Deltas {
	cards, err := deck.Build()
	if err != nil {
		// Decks are validated when the rules are parsed.
		r.logger.Error("deck build failed", zap.Error(err))
		return Deltas{}
	}
	if shuffle {
		cards = ShuffleCards(r.rng, cards)
	}
	r.generated = 0

	var hand []Card
	for i := 0; i < r.rules.OpeningHand && len(cards) > 0; i++ {
		hand = append(hand, cards[len(cards)-1])
		cards = cards[:len(cards)-1]
	}

	return Deltas{
		Grid:            Some(r.gen.CreateGrid(r.rules.GridRows, r.rules.GridCols)),
		RefillRate:      Some(r.rules.RefillRate),
		ActiveServers:   Some(r.rules.Network.StartingServers()),
		DeepMap:         Some([]ServerNode{}),
		Hand:            Some(hand),
		Deck:            Some(cards),
		Discard:         Some([]Card{}),
		Trash:           Some([]Card{}),
		MaxHandSize:     Some(r.rules.MaxHandSize),
		Stats:           Some(r.rules.Player),
		SelectedCardID:  Some(""),
		Rotation:        Some(0),
		Phase:           Some(PhasePlaying),
		Turn:            Some(1),
		PendingEffects:  Some([]Effect{}),
		EffectQueue:     Some([]ActiveEffect{}),
		ActiveCardID:    Some(""),
		ReprogramSource: Some[*Coordinate](nil),
		Events:          []log.GameEvent{log.NewTurnEvent(1, r.rules.Player.Trace)},
	}
}

func (r *referee) selectCard(s Snapshot, cardID string) Deltas {
	if cardID == "" {
		return Deltas{SelectedCardID: Some(""), Rotation: Some(0)}
	}
	card, ok := findCard(s.Hand, cardID)
	if !ok {
		return Deltas{}
	}
	return Deltas{
		SelectedCardID: Some(cardID),
		Rotation:       Some(0),
		Events:         []log.GameEvent{log.NewSelectEvent(s.Turn, s.Phase.String(), card.Name)},
	}
}

func (r *referee) rotate(s Snapshot) Deltas {
	return Deltas{Rotation: Some((s.Rotation + 90) % 360)}
}

// playCard starts resolving a card. A single effect goes straight to
// resolution (immediate effects run at once); several effects wait for the
// player to order them.
func (r *referee) playCard(s Snapshot, cardID string, effects []Effect) resolution {
	var res resolution
	card, ok := findCard(s.Hand, cardID)
	if !ok {
		return res
	}
	if effects == nil {
		effects = card.Effects
	}

	switch len(effects) {
	case 0:
		r.logger.Debug("card has no effects", zap.String("card", card.Name))
		return res
	case 1:
		entry := Deltas{
			Phase:          Some(PhaseEffectResolution),
			ActiveCardID:   Some(cardID),
			SelectedCardID: Some(cardID),
			PendingEffects: Some([]Effect{}),
			EffectQueue:    Some([]ActiveEffect{{CardID: cardID, Effect: effects[0]}}),
		}
		res.add(entry)
		fsm := r.evaluateQueue(s.Patch(entry), nil)
		for _, step := range fsm.steps {
			res.add(step)
		}
		return res
	default:
		res.add(Deltas{
			Phase:          Some(PhaseEffectOrdering),
			ActiveCardID:   Some(cardID),
			SelectedCardID: Some(cardID),
			PendingEffects: Some(append([]Effect(nil), effects...)),
			EffectQueue:    Some([]ActiveEffect{}),
		})
		return res
	}
}

func (r *referee) queueEffect(s Snapshot, index int) Deltas {
	if index < 0 || index >= len(s.PendingEffects) {
		return Deltas{}
	}
	pending := make([]Effect, 0, len(s.PendingEffects)-1)
	pending = append(pending, s.PendingEffects[:index]...)
	pending = append(pending, s.PendingEffects[index+1:]...)

	queue := append(append([]ActiveEffect(nil), s.EffectQueue...),
		ActiveEffect{CardID: s.ActiveCardID, Effect: s.PendingEffects[index]})

	return Deltas{PendingEffects: Some(pending), EffectQueue: Some(queue)}
}

func (r *referee) confirmOrder(s Snapshot) resolution {
	var res resolution
	if len(s.PendingEffects) > 0 {
		res.add(rejected(s, "every effect must be queued first"))
		return res
	}
	entry := Deltas{Phase: Some(PhaseEffectResolution)}
	res.add(entry)
	fsm := r.evaluateQueue(s.Patch(entry), nil)
	for _, step := range fsm.steps {
		res.add(step)
	}
	return res
}

func (r *referee) selectReprogramSource(s Snapshot, c Coordinate) Deltas {
	head, ok := s.HeadEffect()
	if !ok || head.Effect == nil || head.Effect.Kind() != KindReprogram {
		return Deltas{}
	}
	if !s.Grid.InBounds(c.X, c.Y) || s.Grid[c.Y][c.X].State == CellBroken {
		return rejected(s, "reprogram source must be an intact cell")
	}
	return Deltas{ReprogramSource: Some(&c)}
}

func (r *referee) resolveReprogram(s Snapshot, src *Coordinate, dst Coordinate) resolution {
	if src == nil {
		src = s.ReprogramSource
	}
	if src == nil {
		var res resolution
		res.add(rejected(s, "no reprogram source selected"))
		return res
	}
	return r.evaluateQueue(s, ReprogramTarget{Source: *src, Dest: dst})
}

// reboot spends a SYSTEM_RESET card outside the effect queue: it becomes
// the only discard, the old discard pile returns to hand, and the turn ends
// with the reboot trace penalty.
func (r *referee) reboot(s Snapshot, cardID string) Deltas {
	i := indexOfCard(s.Hand, cardID)
	if i < 0 || !s.Hand[i].HasSystemReset() {
		return Deltas{}
	}
	card := s.Hand[i]
	hand := concatCards(withoutCard(s.Hand, i), s.Discard)

	d := Deltas{Events: []log.GameEvent{log.NewRebootEvent(s.Turn, s.Phase.String(), card.Name)}}
	return MergeDeltas(d, r.handleEndTurn(s, r.rules.RebootPenalty, WithHand(hand), WithDiscard([]Card{card})))
}
