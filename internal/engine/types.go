package engine

import (
	"strings"
	"time"
)

// Category classifies triggers and memories into a fixed set of life areas.
type Category string

const (
	CategoryTravail   Category = "travail"
	CategoryFamille   Category = "famille"
	CategoryLoisirs   Category = "loisirs"
	CategorySante     Category = "sante"
	CategoryPersonnel Category = "personnel"
	CategoryAutre     Category = "autre"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryTravail,
	CategoryFamille,
	CategoryLoisirs,
	CategorySante,
	CategoryPersonnel,
	CategoryAutre,
}

// ParseCategory maps free-form input onto the closed category set. Anything
// unrecognized lands in "autre".
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return known
		}
	}
	return CategoryAutre
}

// Trigger is a keyword that surfaces memories when it matches a message.
// Score is the stored base score; the effective score is computed on read
// (see CurrentScore) and decays with idle days.
type Trigger struct {
	ID          string     `json:"id"`
	Word        string     `json:"word"`
	Synonyms    []string   `json:"synonyms,omitempty"`
	Score       int        `json:"score"`
	UsageCount  int        `json:"usage_count"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
	MemoryLinks []string   `json:"memory_links,omitempty"`
	Category    Category   `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Memory is a stored fact about the user, linked back to the triggers that
// surface it.
type Memory struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Category     Category  `json:"category"`
	Importance   int       `json:"importance"`
	TriggerLinks []string  `json:"trigger_links,omitempty"`
	AccessCount  int       `json:"access_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Snapshot is the full in-memory state, as written through to the store.
type Snapshot struct {
	Triggers []Trigger `json:"triggers"`
	Memories []Memory  `json:"memories"`
}

// DatasetVersion is the current export format version.
const DatasetVersion = 1

// Dataset is the versioned export/import document.
type Dataset struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Triggers   []Trigger `json:"triggers"`
	Memories   []Memory  `json:"memories"`
}

// normalizeWord lower-cases and trims a trigger word or synonym.
func normalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// clampImportance bounds importance to 1..10.
func clampImportance(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// removeString returns list without any occurrence of s.
func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
