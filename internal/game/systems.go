package game

import (
	"github.com/peterkuimelis/netbreach/internal/log"
)

// serverProgression scores the harvested cells against every active server
// and applies countermeasure penalties.
func (r *referee) serverProgression(s Snapshot, harvested []Cell) Deltas {
	stats := s.Stats
	hand := append([]Card(nil), s.Hand...)
	deck := append([]Card(nil), s.Deck...)
	trash := append([]Card(nil), s.Trash...)
	servers := make([]ServerNode, 0, len(s.ActiveServers))
	var events []log.GameEvent

	for _, srv := range s.ActiveServers {
		updated, _, penalty := CalculateServerProgress(srv, harvested)
		servers = append(servers, updated)
		if !penalty {
			continue
		}

		events = append(events, log.NewPenaltyEvent(s.Turn, s.Phase.String(), srv.Name, srv.Penalty.String(), srv.PenaltyValue))
		switch srv.Penalty {
		case PenaltyTrace:
			stats.Trace = min(MaxTrace, stats.Trace+srv.PenaltyValue)
		case PenaltyHardwareDamage:
			stats.HardwareHealth = max(0, stats.HardwareHealth-srv.PenaltyValue)
		case PenaltyNetDamage:
			for i := 0; i < srv.PenaltyValue; i++ {
				switch {
				case len(hand) > 0:
					idx := r.rng.Intn(len(hand))
					events = append(events, log.NewTrashEvent(s.Turn, s.Phase.String(), hand[idx].Name, "hand"))
					trash = append(trash, hand[idx])
					hand = withoutCard(hand, idx)
				case len(deck) > 0:
					top := deck[len(deck)-1]
					events = append(events, log.NewTrashEvent(s.Turn, s.Phase.String(), top.Name, "deck"))
					trash = append(trash, top)
					deck = deck[:len(deck)-1]
				}
			}
		}
	}

	return Deltas{
		ActiveServers: Some(servers),
		Stats:         Some(stats),
		Hand:          Some(hand),
		Deck:          Some(deck),
		Trash:         Some(trash),
		Events:        events,
	}
}

// networkGraph pays out and unlocks children for servers that became
// HACKED between prev and cur.
func (r *referee) networkGraph(prev, cur Snapshot) Deltas {
	wasHacked := make(map[string]bool, len(prev.ActiveServers))
	for _, s := range prev.ActiveServers {
		wasHacked[s.ID] = s.Status == ServerHacked
	}

	stats := cur.Stats
	var hacked []ServerNode
	var events []log.GameEvent
	for _, s := range cur.ActiveServers {
		if s.Status != ServerHacked || wasHacked[s.ID] {
			continue
		}
		hacked = append(hacked, s)
		stats.Credits += s.Reward()
		events = append(events, log.NewHackEvent(cur.Turn, cur.Phase.String(), s.Name, s.Reward()))
	}
	if len(hacked) == 0 {
		return Deltas{}
	}

	exp := r.rules.Network.Expand(cur.ActiveServers, cur.DeepMap, hacked, r.rules.ActiveRowSize)
	if r.rules.ProceduralServers {
		difficulty := r.rules.Network.MaxDifficulty()
		for _, s := range exp.Active {
			difficulty = max(difficulty, s.Difficulty)
		}
		for len(exp.Active) < r.rules.ActiveRowSize {
			r.generated++
			exp.Active = append(exp.Active, GenerateServerNode(r.rng, difficulty+1, r.generated))
		}
	}

	return Deltas{
		ActiveServers: Some(exp.Active),
		DeepMap:       Some(exp.Deep),
		Stats:         Some(stats),
		Events:        events,
		targetHacked:  exp.TargetHacked,
	}
}

// checkOutcome derives GAME_OVER / VICTORY after a mechanic step. prev is
// the state the step was computed from. The terminal cue is emitted only on
// the transition, and the internal markers are stripped from the step.
func (r *referee) checkOutcome(prev Snapshot, step Deltas) Deltas {
	target := step.targetHacked
	step.harvested, step.targetHacked = nil, false

	next := prev.Patch(step)
	if prev.Phase.Terminal() || next.Phase.Terminal() {
		return step
	}

	reason := ""
	switch {
	case next.Stats.HardwareHealth <= 0:
		reason = "hardware destroyed"
	case next.Stats.Trace >= MaxTrace:
		reason = "trace complete"
	case len(next.Hand) == 0 && len(next.Deck) == 0:
		reason = "no cards left"
	}

	switch {
	case reason != "":
		step.Phase = Some(PhaseGameOver)
		step.Events = append(step.Events, log.NewGameOverEvent(next.Turn, reason))
	case target:
		step.Phase = Some(PhaseVictory)
		step.Events = append(step.Events, log.NewVictoryEvent(next.Turn))
	}
	return step
}
