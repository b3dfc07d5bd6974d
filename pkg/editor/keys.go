package editor

import (
	"context"
	"strings"
)

// Key names understood by HandleKey. Names are matched case-insensitively.
const (
	KeyDelete = "delete"
)

// newItemKeys are the new-item shortcuts as spelled by common hosts.
var newItemKeys = map[string]bool{
	"ctrl+n":  true,
	"cmd+n":   true,
	"meta+n":  true,
	"super+n": true,
}

// HandleKey runs the shortcut bound to key. It reports whether the key was
// consumed, in which case the host must not run its own binding for it.
//
// Delete removes the selected item; Ctrl/Cmd+N adds a new one.
func (e *Editor) HandleKey(ctx context.Context, key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	switch {
	case k == KeyDelete:
		return e.DeleteSelected(ctx)
	case newItemKeys[k]:
		e.AddItem(ctx)
		return true
	}
	return false
}
