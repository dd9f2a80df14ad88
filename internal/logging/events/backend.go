package events

import "github.com/clipdeck/clipdeck/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Captured(itemID string, size int) {
	logging.Trace("backend.captured", map[string]interface{}{
		"item": itemID,
		"size": size,
	})
}

func (BackendTracer) Refreshed(items int) {
	logging.Trace("backend.refreshed", map[string]interface{}{"items": items})
}

func (BackendTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"error": err.Error()})
}
