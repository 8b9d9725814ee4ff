package engine

import (
	"context"
	"log"
	"sort"
	"strings"
)

// Matching constants.
const (
	semanticCandidates  = 5   // cap on per-scan similarity oracle calls
	similarityThreshold = 0.7 // minimum oracle score to activate a trigger
)

// ScanResult is the outcome of matching one message against the trigger table.
type ScanResult struct {
	ActivatedTriggers []Trigger `json:"activated_triggers"`
	RelevantMemories  []Memory  `json:"relevant_memories"`
}

// Scan matches a message against all active triggers in two phases: fast
// lexical substring/synonym matching, then bounded semantic-similarity calls
// for the top remaining candidates. Matched triggers are activated and their
// linked memories collected. Oracle failures degrade to lexical-only; they
// never fail the scan.
func (e *Engine) Scan(ctx context.Context, message string) (*ScanResult, error) {
	now := e.now()
	lower := strings.ToLower(message)

	// Active set: everything at or above the archive threshold, best first.
	var active []*Trigger
	for _, t := range e.triggers {
		if CurrentScore(t, now) >= ArchiveThreshold {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		si, sj := CurrentScore(active[i], now), CurrentScore(active[j], now)
		if si != sj {
			return si > sj
		}
		return active[i].Word < active[j].Word
	})

	// Phase 1: lexical.
	var activated, leftover []*Trigger
	for _, t := range active {
		if lexicalMatch(lower, t) {
			activated = append(activated, t)
		} else {
			leftover = append(leftover, t)
		}
	}

	// Phase 2: semantic, capped to bound oracle cost. Calls run one at a
	// time; a failed call counts as similarity 0.
	if e.oracle != nil {
		if len(leftover) > semanticCandidates {
			leftover = leftover[:semanticCandidates]
		}
		for _, t := range leftover {
			sim, err := e.oracle.Similarity(ctx, message, t.Word)
			if err != nil {
				log.Printf("scan: similarity for %q: %v", t.Word, err)
				continue
			}
			if sim >= similarityThreshold {
				activated = append(activated, t)
			}
		}
	}

	result := &ScanResult{}
	if len(activated) == 0 {
		return result, nil
	}

	for _, t := range activated {
		e.activate(t)
		result.ActivatedTriggers = append(result.ActivatedTriggers, *cloneTrigger(t))
	}

	// Memory collection: union of links across activated triggers.
	seen := make(map[string]bool)
	for _, t := range activated {
		for _, memID := range t.MemoryLinks {
			if seen[memID] {
				continue
			}
			seen[memID] = true
			m, ok := e.memories[memID]
			if !ok {
				continue
			}
			m.AccessCount++
			result.RelevantMemories = append(result.RelevantMemories, *cloneMemory(m))
		}
	}
	sort.SliceStable(result.RelevantMemories, func(i, j int) bool {
		return result.RelevantMemories[i].Importance > result.RelevantMemories[j].Importance
	})

	if err := e.persist(); err != nil {
		return nil, err
	}
	return result, nil
}

// lexicalMatch reports whether the lower-cased message contains the
// trigger's canonical word or any of its synonyms as a substring.
func lexicalMatch(lowerMessage string, t *Trigger) bool {
	if strings.Contains(lowerMessage, t.Word) {
		return true
	}
	for _, s := range t.Synonyms {
		if strings.Contains(lowerMessage, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
