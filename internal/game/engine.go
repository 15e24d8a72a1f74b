package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/peterkuimelis/netbreach/internal/log"
	"go.uber.org/zap"
)

// Config holds configuration for creating a new engine.
type Config struct {
	Rules     *Rules          // nil means DefaultRules()
	Deck      int             // 1-indexed deck of Rules.Decks (0 = first)
	Seed      int64           // RNG seed (0 for random)
	NoShuffle bool            // skip the opening shuffle (for deterministic tests)
	Logger    *zap.Logger     // diagnostics; nil means no-op
	Events    log.EventLogger // cue sink; more can be added with Subscribe
}

// Engine owns the committed session state. Every change goes through a
// dispatched action: the reducer reads a snapshot, produces deltas, and the
// engine applies them and fans their events out to subscribers.
type Engine struct {
	mu        sync.Mutex
	state     Snapshot
	ref       *referee
	phases    *PhaseMachine
	deck      DeckEntry
	noShuffle bool
	seed      int64
	seq       int
	sinks     []log.EventLogger
	logger    *zap.Logger
}

// NewEngine builds an engine in MENU. Dispatch InitializeGame to start.
func NewEngine(cfg Config) (*Engine, error) {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	n := cfg.Deck
	if n == 0 {
		n = 1
	}
	deck, err := rules.DeckByNumber(n)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		ref:       newReferee(rules, rand.New(rand.NewSource(seed)), logger),
		phases:    NewPhaseMachine(logger),
		deck:      deck,
		noShuffle: cfg.NoShuffle,
		seed:      seed,
		logger:    logger,
		state:     Snapshot{Phase: PhaseMenu, MaxHandSize: rules.MaxHandSize, RefillRate: rules.RefillRate},
	}
	if cfg.Events != nil {
		e.sinks = append(e.sinks, cfg.Events)
	}
	logger.Debug("engine created", zap.String("deck", deck.Name), zap.Int64("seed", seed))
	return e, nil
}

// Subscribe adds a cue sink. Events are delivered in commit order.
func (e *Engine) Subscribe(l log.EventLogger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, l)
}

// Snapshot returns a deep copy of the committed state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Phase returns the phase tracked by the phase machine.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phases.Current()
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() *Rules { return e.ref.rules }

// Seed returns the RNG seed in use.
func (e *Engine) Seed() int64 { return e.seed }

// DeckName returns the name of the deck INITIALIZE_GAME builds.
func (e *Engine) DeckName() string { return e.deck.Name }

// Dispatch reduces a against the committed state, applies the result and
// returns it merged into one delta.
func (e *Engine) Dispatch(a Action) Deltas {
	var total Deltas
	for _, step := range e.DispatchSteps(a) {
		total = MergeDeltas(total, step)
	}
	return total
}

// DispatchSteps is Dispatch keeping the individual mechanic steps, each
// applied in order.
func (e *Engine) DispatchSteps(a Action) []Deltas {
	e.mu.Lock()
	defer e.mu.Unlock()
	steps := e.reduce(e.state, a)
	for _, step := range steps {
		e.apply(step)
	}
	return steps
}

// Plan reduces a against the committed state without applying anything.
// The caller is expected to Apply every returned step, in order, before
// planning the next action.
func (e *Engine) Plan(a Action) []Deltas {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reduce(e.state, a)
}

// Apply commits a delta: present fields replace their owners, the phase
// machine follows the phase, and events are fanned out.
func (e *Engine) Apply(d Deltas) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(d)
}

func (e *Engine) apply(d Deltas) {
	prev := e.state.Phase
	e.state = e.state.Patch(d)

	if next, ok := d.Phase.Get(); ok && next != prev {
		if err := e.phases.Transition(context.Background(), next); err != nil {
			e.logger.Warn("phase machine refused transition",
				zap.Stringer("from", prev),
				zap.Stringer("to", next),
				zap.Error(err),
			)
		}
	}

	for _, ev := range d.Events {
		e.seq++
		ev.Seq = e.seq
		for _, sink := range e.sinks {
			sink.Log(ev)
		}
	}
}

// reduce routes an action to its handler. Actions outside their phase are
// silently invalid.
func (e *Engine) reduce(s Snapshot, a Action) []Deltas {
	if !actionAllowed(a.Kind, s.Phase) {
		e.logger.Debug("action ignored",
			zap.Stringer("action", a),
			zap.Stringer("phase", s.Phase),
		)
		return nil
	}

	r := e.ref
	switch a.Kind {
	case ActionInitializeGame:
		return nonEmpty(r.initialize(s, e.deck, !e.noShuffle))
	case ActionSelectCard:
		return nonEmpty(r.selectCard(s, a.CardID))
	case ActionRotateCard:
		return nonEmpty(r.rotate(s))
	case ActionPlayCard:
		return nonEmpty(r.playCard(s, a.CardID, a.Effects).steps...)
	case ActionQueueEffect:
		return nonEmpty(r.queueEffect(s, a.EffectIndex))
	case ActionConfirmEffectOrder:
		return nonEmpty(r.confirmOrder(s).steps...)
	case ActionSelectReprogramSource:
		return nonEmpty(r.selectReprogramSource(s, Coordinate{X: a.X, Y: a.Y}))
	case ActionResolveCut:
		return nonEmpty(r.evaluateQueue(s, CutTarget{X: a.X, Y: a.Y, Pattern: a.Pattern}).steps...)
	case ActionResolveReprogram:
		return nonEmpty(r.resolveReprogram(s, a.Source, a.Dest).steps...)
	case ActionResolveSystemReset:
		return nonEmpty(r.evaluateQueue(s, nil).steps...)
	case ActionFinishCardResolution:
		return nonEmpty(r.finish(s))
	case ActionEndTurn:
		return nonEmpty(r.handleEndTurn(s, r.rules.EndTurnPenalty))
	case ActionReboot:
		return nonEmpty(r.reboot(s, a.CardID))
	}
	e.logger.Debug("no handler for action", zap.Int("kind", int(a.Kind)))
	return nil
}

func nonEmpty(steps ...Deltas) []Deltas {
	out := steps[:0:0]
	for _, d := range steps {
		if !d.Empty() {
			out = append(out, d)
		}
	}
	return out
}

func actionAllowed(k ActionKind, p Phase) bool {
	switch k {
	case ActionInitializeGame:
		return true
	case ActionSelectCard, ActionPlayCard, ActionEndTurn, ActionReboot:
		return p == PhasePlaying
	case ActionRotateCard:
		return p == PhasePlaying || p == PhaseEffectResolution
	case ActionQueueEffect, ActionConfirmEffectOrder:
		return p == PhaseEffectOrdering
	case ActionSelectReprogramSource, ActionResolveCut, ActionResolveReprogram, ActionResolveSystemReset:
		return p == PhaseEffectResolution
	case ActionFinishCardResolution:
		return p == PhaseEffectResolution || p == PhaseEffectOrdering
	}
	return false
}
