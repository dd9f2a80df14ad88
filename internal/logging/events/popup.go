package events

import "github.com/clipdeck/clipdeck/internal/logging"

type PopupTracer struct{}

type PlacementTracer struct{}

var (
	Popup     = PopupTracer{}
	Placement = PlacementTracer{}
)

func (PopupTracer) Show(items int) {
	logging.Trace("popup.show", map[string]interface{}{"items": items})
}

func (PopupTracer) Hide() {
	logging.Trace("popup.hide", nil)
}

func (PopupTracer) ListUpdated(items int) {
	logging.Trace("popup.list-updated", map[string]interface{}{"items": items})
}

func (PopupTracer) SelectionMove(index int) {
	logging.Trace("popup.selection", map[string]interface{}{"index": index})
}

func (PopupTracer) Hover(index int) {
	logging.Trace("popup.hover", map[string]interface{}{"index": index})
}

func (PopupTracer) Confirm(itemID string) {
	logging.Trace("popup.confirm", map[string]interface{}{"item": itemID})
}

func (PopupTracer) EditMode(enabled bool) {
	logging.Trace("popup.edit-mode", map[string]interface{}{"enabled": enabled})
}

func (PlacementTracer) Resolve(anchorX, y float64, above bool) {
	logging.Trace("placement.resolve", map[string]interface{}{
		"anchorX": anchorX,
		"y":       y,
		"above":   above,
	})
}
