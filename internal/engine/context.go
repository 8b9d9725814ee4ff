package engine

import (
	"context"
	"fmt"
	"strings"
)

// Context supplement constants.
const (
	recentMemoryCount   = 5 // recent memories appended after scan matches
	recentImportanceMin = 7 // only high-importance memories qualify
)

// ContextForMessage builds the "what we know about the user" text block for
// a message: scan-matched memories first (sorted by importance), then the
// most recently created high-importance memories not already included, in
// recency order. An empty string means no context is available.
func (e *Engine) ContextForMessage(ctx context.Context, message string) (string, error) {
	scan, err := e.Scan(ctx, message)
	if err != nil {
		return "", err
	}

	included := make(map[string]bool)
	var b strings.Builder
	for _, m := range scan.RelevantMemories {
		included[m.ID] = true
		writeMemoryLine(&b, m)
	}

	recent := 0
	for _, m := range e.ListMemories("") {
		if recent >= recentMemoryCount {
			break
		}
		if m.Importance < recentImportanceMin || included[m.ID] {
			continue
		}
		writeMemoryLine(&b, m)
		recent++
	}

	return b.String(), nil
}

func writeMemoryLine(b *strings.Builder, m Memory) {
	fmt.Fprintf(b, "- [%s] %s\n", m.Category, m.Content)
}
