package engine

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// minTriggerWordLen is the anti-noise floor for extractor-created triggers.
// Proposed words of 2 characters or fewer are dropped.
const minTriggerWordLen = 3

// ExtractResult reports what one extraction pass created or reused.
type ExtractResult struct {
	Triggers []Trigger `json:"triggers"`
	Memory   *Memory   `json:"memory,omitempty"`
}

// ExtractAndStore sends a message to the extraction oracle and reconciles
// the structured result into the trigger and memory tables. Oracle failures
// and unimportant messages produce an empty result, not an error; nothing is
// persisted in that case. The whole operation persists once, at the end.
func (e *Engine) ExtractAndStore(ctx context.Context, message string) (*ExtractResult, error) {
	result := &ExtractResult{}
	if e.oracle == nil {
		return result, nil
	}

	ex, err := e.oracle.Extract(ctx, message)
	if err != nil {
		log.Printf("extraction: oracle failed: %v", err)
		return result, nil
	}
	if ex == nil || !ex.Important {
		return result, nil
	}

	importance := 0
	if ex.Memory != nil {
		importance = clampImportance(ex.Memory.Importance)
	}

	// Reconcile each proposed trigger word against the existing table.
	var passTriggers []*Trigger
	seen := make(map[string]bool)
	for _, p := range ex.Triggers {
		w := normalizeWord(p.Word)
		if utf8.RuneCountInString(w) < minTriggerWordLen {
			continue
		}
		if seen[w] {
			continue
		}
		seen[w] = true

		if t := e.findTriggerByWord(w); t != nil {
			// Reuse: reinforce and merge any new synonyms.
			e.activate(t)
			for _, s := range p.Synonyms {
				s = normalizeWord(s)
				if s == "" || s == t.Word || containsFold(t.Synonyms, s) {
					continue
				}
				t.Synonyms = append(t.Synonyms, s)
			}
			passTriggers = append(passTriggers, t)
			continue
		}

		t := &Trigger{
			ID:        uuid.NewString(),
			Word:      w,
			Synonyms:  mergeSynonyms(w, ExpandSynonyms(w), p.Synonyms),
			Score:     scoreNewTrigger + importance*2,
			Category:  ParseCategory(p.Category),
			CreatedAt: e.now(),
		}
		e.triggers[t.ID] = t
		passTriggers = append(passTriggers, t)
	}

	// Link the new memory to every trigger touched in this pass.
	var mem *Memory
	if ex.Memory != nil && strings.TrimSpace(ex.Memory.Content) != "" {
		mem = &Memory{
			ID:         uuid.NewString(),
			Content:    strings.TrimSpace(ex.Memory.Content),
			Category:   ParseCategory(ex.Memory.Category),
			Importance: importance,
			CreatedAt:  e.now(),
		}
		for _, t := range passTriggers {
			e.link(t, mem)
		}
		e.memories[mem.ID] = mem
	}

	if len(passTriggers) == 0 && mem == nil {
		return result, nil
	}

	if err := e.persist(); err != nil {
		return nil, err
	}

	for _, t := range passTriggers {
		result.Triggers = append(result.Triggers, *cloneTrigger(t))
	}
	if mem != nil {
		result.Memory = cloneMemory(mem)
	}
	return result, nil
}
