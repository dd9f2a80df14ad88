// Package ui hosts the Bubble Tea shell around the popup controller:
// input mapping, backend event plumbing, animation scheduling, and the
// terminal renderer. All authoritative list, selection, and queue state
// lives in internal/popup; this package only draws it and feeds it
// events.
package ui
