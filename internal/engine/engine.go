package engine

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/adour/souvenir/internal/llm"
	"github.com/google/uuid"
)

// Storage keys for the persisted tables and the decay marker.
const (
	keyTriggers  = "triggers"
	keyMemories  = "memories"
	keyLastDecay = "last_decay"
)

// Store is the durable key-value contract the engine persists through.
// Missing keys read as "".
type Store interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// Engine is the trigger/memory engine. It holds both tables in memory and
// writes the full snapshot through to the store on every mutating operation.
// Single-threaded by design: no internal locking.
type Engine struct {
	store  Store
	oracle llm.Oracle
	now    func() time.Time

	triggers map[string]*Trigger
	memories map[string]*Memory
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New loads the persisted snapshot and runs the daily decay pass once.
// A nil oracle disables semantic matching and extraction; lexical matching
// still works.
func New(store Store, oracle llm.Oracle, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:    store,
		oracle:   oracle,
		now:      time.Now,
		triggers: make(map[string]*Trigger),
		memories: make(map[string]*Memory),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.load()

	if err := e.ApplyDailyDecay(); err != nil {
		return nil, fmt.Errorf("startup decay: %w", err)
	}
	return e, nil
}

// load reads both tables from the store. Missing or malformed data is
// treated as empty, logged, never fatal.
func (e *Engine) load() {
	if raw, err := e.store.Get(keyTriggers); err != nil {
		log.Printf("load: read triggers: %v", err)
	} else if raw != "" {
		var triggers []Trigger
		if err := json.Unmarshal([]byte(raw), &triggers); err != nil {
			log.Printf("load: malformed triggers, starting empty: %v", err)
		} else {
			for i := range triggers {
				t := triggers[i]
				e.triggers[t.ID] = &t
			}
		}
	}

	if raw, err := e.store.Get(keyMemories); err != nil {
		log.Printf("load: read memories: %v", err)
	} else if raw != "" {
		var memories []Memory
		if err := json.Unmarshal([]byte(raw), &memories); err != nil {
			log.Printf("load: malformed memories, starting empty: %v", err)
		} else {
			for i := range memories {
				m := memories[i]
				e.memories[m.ID] = &m
			}
		}
	}
}

// persist writes both tables through to the store. Save failures propagate;
// durability is best-effort.
func (e *Engine) persist() error {
	snap := e.snapshot()

	triggers, err := json.Marshal(snap.Triggers)
	if err != nil {
		return fmt.Errorf("marshal triggers: %w", err)
	}
	memories, err := json.Marshal(snap.Memories)
	if err != nil {
		return fmt.Errorf("marshal memories: %w", err)
	}

	if err := e.store.Put(keyTriggers, string(triggers)); err != nil {
		return fmt.Errorf("save triggers: %w", err)
	}
	if err := e.store.Put(keyMemories, string(memories)); err != nil {
		return fmt.Errorf("save memories: %w", err)
	}
	return nil
}

// snapshot collects both tables into deterministic creation order.
func (e *Engine) snapshot() *Snapshot {
	snap := &Snapshot{
		Triggers: make([]Trigger, 0, len(e.triggers)),
		Memories: make([]Memory, 0, len(e.memories)),
	}
	for _, t := range e.triggers {
		snap.Triggers = append(snap.Triggers, *cloneTrigger(t))
	}
	for _, m := range e.memories {
		snap.Memories = append(snap.Memories, *cloneMemory(m))
	}
	sort.Slice(snap.Triggers, func(i, j int) bool {
		if !snap.Triggers[i].CreatedAt.Equal(snap.Triggers[j].CreatedAt) {
			return snap.Triggers[i].CreatedAt.Before(snap.Triggers[j].CreatedAt)
		}
		return snap.Triggers[i].ID < snap.Triggers[j].ID
	})
	sort.Slice(snap.Memories, func(i, j int) bool {
		if !snap.Memories[i].CreatedAt.Equal(snap.Memories[j].CreatedAt) {
			return snap.Memories[i].CreatedAt.Before(snap.Memories[j].CreatedAt)
		}
		return snap.Memories[i].ID < snap.Memories[j].ID
	})
	return snap
}

// CreateTrigger creates a trigger with the given word, seeded with static
// synonym expansion plus the provided synonyms. The word is normalized;
// an empty word is rejected.
func (e *Engine) CreateTrigger(word string, category Category, synonyms []string) (*Trigger, error) {
	w := normalizeWord(word)
	if w == "" {
		return nil, fmt.Errorf("trigger word is empty")
	}

	t := &Trigger{
		ID:        uuid.NewString(),
		Word:      w,
		Synonyms:  mergeSynonyms(w, ExpandSynonyms(w), synonyms),
		Score:     scoreNewTrigger,
		Category:  category,
		CreatedAt: e.now(),
	}
	e.triggers[t.ID] = t

	if err := e.persist(); err != nil {
		return nil, err
	}
	return cloneTrigger(t), nil
}

// CreateMemory creates a memory linked to the given triggers. Importance is
// clamped to 1..10. Unknown trigger ids are skipped, not errors.
func (e *Engine) CreateMemory(content string, category Category, importance int, triggerIDs []string) (*Memory, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("memory content is empty")
	}

	m := &Memory{
		ID:         uuid.NewString(),
		Content:    content,
		Category:   category,
		Importance: clampImportance(importance),
		CreatedAt:  e.now(),
	}
	for _, id := range triggerIDs {
		t, ok := e.triggers[id]
		if !ok {
			continue
		}
		e.link(t, m)
	}
	e.memories[m.ID] = m

	if err := e.persist(); err != nil {
		return nil, err
	}
	return cloneMemory(m), nil
}

// link records the bidirectional trigger↔memory association.
func (e *Engine) link(t *Trigger, m *Memory) {
	if !containsFold(m.TriggerLinks, t.ID) {
		m.TriggerLinks = append(m.TriggerLinks, t.ID)
	}
	if !containsFold(t.MemoryLinks, m.ID) {
		t.MemoryLinks = append(t.MemoryLinks, m.ID)
	}
}

// GetTrigger returns a trigger by id.
func (e *Engine) GetTrigger(id string) (*Trigger, bool) {
	t, ok := e.triggers[id]
	if !ok {
		return nil, false
	}
	return cloneTrigger(t), true
}

// GetMemory returns a memory by id.
func (e *Engine) GetMemory(id string) (*Memory, bool) {
	m, ok := e.memories[id]
	if !ok {
		return nil, false
	}
	return cloneMemory(m), true
}

// FindTriggerByWord returns the trigger with the given canonical word.
func (e *Engine) FindTriggerByWord(word string) (*Trigger, bool) {
	t := e.findTriggerByWord(normalizeWord(word))
	if t == nil {
		return nil, false
	}
	return cloneTrigger(t), true
}

func (e *Engine) findTriggerByWord(word string) *Trigger {
	for _, t := range e.triggers {
		if t.Word == word {
			return t
		}
	}
	return nil
}

// ListTriggers returns all triggers, optionally filtered by category,
// ordered by computed score descending.
func (e *Engine) ListTriggers(category Category) []Trigger {
	now := e.now()
	var out []Trigger
	for _, t := range e.triggers {
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, *cloneTrigger(t))
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := CurrentScore(&out[i], now), CurrentScore(&out[j], now)
		if si != sj {
			return si > sj
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// ListMemories returns all memories, optionally filtered by category,
// most recent first.
func (e *Engine) ListMemories(category Category) []Memory {
	var out []Memory
	for _, m := range e.memories {
		if category != "" && m.Category != category {
			continue
		}
		out = append(out, *cloneMemory(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DeleteTrigger removes a trigger and every back-reference to it.
// Unknown ids are a no-op.
func (e *Engine) DeleteTrigger(id string) error {
	if _, ok := e.triggers[id]; !ok {
		return nil
	}
	delete(e.triggers, id)
	for _, m := range e.memories {
		m.TriggerLinks = removeString(m.TriggerLinks, id)
	}
	return e.persist()
}

// DeleteMemory removes a memory and every back-reference to it.
// Unknown ids are a no-op.
func (e *Engine) DeleteMemory(id string) error {
	if _, ok := e.memories[id]; !ok {
		return nil
	}
	delete(e.memories, id)
	for _, t := range e.triggers {
		t.MemoryLinks = removeString(t.MemoryLinks, id)
	}
	return e.persist()
}

// Stats summarizes both tables.
type Stats struct {
	TriggerCount       int              `json:"trigger_count"`
	MemoryCount        int              `json:"memory_count"`
	ActiveTriggers     int              `json:"active_triggers"`   // computed score >= archive threshold
	HighPriority       int              `json:"high_priority"`     // computed score >= active threshold
	ArchivedTriggers   int              `json:"archived_triggers"` // below archive threshold
	TriggersByCategory map[Category]int `json:"triggers_by_category"`
	MemoriesByCategory map[Category]int `json:"memories_by_category"`
}

// ComputeStats returns aggregate statistics over both tables.
func (e *Engine) ComputeStats() Stats {
	now := e.now()
	stats := Stats{
		TriggerCount:       len(e.triggers),
		MemoryCount:        len(e.memories),
		TriggersByCategory: make(map[Category]int),
		MemoriesByCategory: make(map[Category]int),
	}
	for _, t := range e.triggers {
		stats.TriggersByCategory[t.Category]++
		score := CurrentScore(t, now)
		if score >= ArchiveThreshold {
			stats.ActiveTriggers++
		} else {
			stats.ArchivedTriggers++
		}
		if score >= ActiveThreshold {
			stats.HighPriority++
		}
	}
	for _, m := range e.memories {
		stats.MemoriesByCategory[m.Category]++
	}
	return stats
}

// Export returns the full dataset as a versioned document.
func (e *Engine) Export() *Dataset {
	snap := e.snapshot()
	return &Dataset{
		Version:    DatasetVersion,
		ExportedAt: e.now(),
		Triggers:   snap.Triggers,
		Memories:   snap.Memories,
	}
}

// Import replaces the engine state with the given dataset and persists it.
func (e *Engine) Import(ds *Dataset) error {
	if ds == nil {
		return fmt.Errorf("nil dataset")
	}
	if ds.Version > DatasetVersion {
		return fmt.Errorf("unsupported dataset version %d", ds.Version)
	}

	e.triggers = make(map[string]*Trigger, len(ds.Triggers))
	e.memories = make(map[string]*Memory, len(ds.Memories))
	for i := range ds.Triggers {
		t := ds.Triggers[i]
		e.triggers[t.ID] = &t
	}
	for i := range ds.Memories {
		m := ds.Memories[i]
		m.Importance = clampImportance(m.Importance)
		e.memories[m.ID] = &m
	}
	return e.persist()
}

// Clear wipes both tables and persists the empty state.
func (e *Engine) Clear() error {
	e.triggers = make(map[string]*Trigger)
	e.memories = make(map[string]*Memory)
	return e.persist()
}

// mergeSynonyms deduplicates synonym lists case-insensitively, excluding the
// trigger's own canonical word.
func mergeSynonyms(word string, lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, s := range list {
			s = normalizeWord(s)
			if s == "" || s == word || containsFold(out, s) {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

func cloneTrigger(t *Trigger) *Trigger {
	c := *t
	c.Synonyms = append([]string(nil), t.Synonyms...)
	c.MemoryLinks = append([]string(nil), t.MemoryLinks...)
	if t.LastUsed != nil {
		lu := *t.LastUsed
		c.LastUsed = &lu
	}
	return &c
}

func cloneMemory(m *Memory) *Memory {
	c := *m
	c.TriggerLinks = append([]string(nil), m.TriggerLinks...)
	return &c
}
