// Package history holds the clipboard history model and its SQLite
// store: the popup's list provider.
package history

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind tags what a history item contains. The terminal capture path
// only produces text, but the model and schema carry the full set so
// image-capable shells can reuse the store.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindMixed Kind = "mixed"
)

// previewMax caps the stored preview length in runes; longer content
// is cut and rendered with a trailing ellipsis.
const previewMax = 130

// Item is one clipboard history entry. Identity is stable for as long
// as the entry exists; the popup references items by list position and
// resolves IDs only at the store boundary.
type Item struct {
	ID        string
	Content   string
	Preview   string
	Kind      Kind
	Thumbnail []byte
	CreatedAt time.Time
}

// NewText builds a text item with a derived preview and fresh identity.
func NewText(content string) Item {
	return Item{
		ID:        uuid.NewString(),
		Content:   content,
		Preview:   MakePreview(content),
		Kind:      KindText,
		CreatedAt: time.Now(),
	}
}

// MakePreview collapses whitespace runs into single spaces and caps
// the result, producing the single-line row text.
func MakePreview(content string) string {
	collapsed := strings.Join(strings.Fields(content), " ")
	runes := []rune(collapsed)
	if len(runes) > previewMax {
		return string(runes[:previewMax])
	}
	return collapsed
}
