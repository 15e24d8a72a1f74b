package game

import (
	"github.com/peterkuimelis/netbreach/internal/log"
	"go.uber.org/zap"
)

// resolution is the outcome of running the effect queue: the merged delta
// and the individual steps it was built from, in order.
type resolution struct {
	total Deltas
	steps []Deltas
}

func (res *resolution) add(step Deltas) {
	res.total = MergeDeltas(res.total, step)
	res.steps = append(res.steps, step)
}

// evaluateQueue runs the effect queue of s. Immediate effects execute and
// pop. A deferred effect executes only if payload is non-nil, and the
// payload is spent on the first deferred effect reached; the loop halts at
// the next deferred effect, or when a deferred step leaves its effect at
// the head (rejected target, multi-step reprogram). An empty queue finishes
// the card.
func (r *referee) evaluateQueue(s Snapshot, payload Payload) resolution {
	var res resolution
	cur := s

	for {
		if cur.Phase.Terminal() {
			step := clearResolution()
			res.add(step)
			return res
		}

		head, ok := cur.HeadEffect()
		if !ok {
			res.add(r.finish(cur))
			return res
		}

		mode, run, found := r.mechanicFor(head.Effect)
		if !found {
			name := "<nil>"
			if head.Effect != nil {
				name = head.Effect.String()
			}
			r.logger.Warn("no mechanic for effect; dropping it",
				zap.String("effect", name),
				zap.String("card", head.CardID),
			)
			step := Deltas{
				EffectQueue: Some(popQueue(cur.EffectQueue)),
				Events:      []log.GameEvent{log.NewDroppedEvent(cur.Turn, cur.Phase.String(), name)},
			}
			res.add(step)
			cur = cur.Patch(step)
			continue
		}

		if mode == Deferred && payload == nil {
			return res
		}

		var p Payload
		if mode == Deferred {
			p, payload = payload, nil
		}
		step := run(cur, head, p)
		if !step.EffectQueue.Set {
			step.EffectQueue = Some(popQueue(cur.EffectQueue))
		}
		step = r.checkOutcome(cur, step)

		res.add(step)
		waiting := mode == Deferred && len(step.EffectQueue.Value) >= len(cur.EffectQueue)
		cur = cur.Patch(step)
		if waiting && !cur.Phase.Terminal() {
			return res
		}
	}
}
