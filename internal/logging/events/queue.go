package events

import "github.com/clipdeck/clipdeck/internal/logging"

type QueueTracer struct{}

var Queue = QueueTracer{}

func (QueueTracer) Enqueue(position int, itemID string, depth int) {
	logging.Trace("queue.enqueue", map[string]interface{}{
		"position": position,
		"item":     itemID,
		"depth":    depth,
	})
}

func (QueueTracer) Duplicate(position int, itemID string) {
	logging.Trace("queue.duplicate", map[string]interface{}{
		"position": position,
		"item":     itemID,
	})
}

func (QueueTracer) Drop(position int, itemID, reason string) {
	logging.Trace("queue.drop", map[string]interface{}{
		"position": position,
		"item":     itemID,
		"reason":   reason,
	})
}

func (QueueTracer) Process(position int, itemID string, remaining int) {
	logging.Trace("queue.process", map[string]interface{}{
		"position":  position,
		"item":      itemID,
		"remaining": remaining,
	})
}

func (QueueTracer) Renumber(removed int, positions []int) {
	logging.Trace("queue.renumber", map[string]interface{}{
		"removed":   removed,
		"positions": positions,
	})
}

func (QueueTracer) Complete(token int) {
	logging.Trace("queue.complete", map[string]interface{}{"token": token})
}

func (QueueTracer) StaleToken(token, current int) {
	logging.Trace("queue.stale-token", map[string]interface{}{
		"token":   token,
		"current": current,
	})
}

func (QueueTracer) Clear(dropped int) {
	logging.Trace("queue.clear", map[string]interface{}{"dropped": dropped})
}
