package engine

import (
	"fmt"
	"log"
	"time"
)

// Scoring constants.
const (
	decayPerDay     = 2  // stored and computed score lost per idle day
	usageBonus      = 5  // added to the stored score on each activation
	scoreNewTrigger = 50 // stored score baseline for extractor-created triggers
)

// Score thresholds separating ignored, eligible, and high-priority triggers.
const (
	ArchiveThreshold = 20 // minimum computed score to be considered at all
	ActiveThreshold  = 50 // minimum computed score to be high priority
)

// dateLayout is the calendar-day format of the persisted decay marker.
const dateLayout = "2006-01-02"

// CurrentScore computes a trigger's relevance at the given instant. It is
// never stored: usage bonus plus the stored base score, minus idle-day
// decay, floored at zero.
func CurrentScore(t *Trigger, now time.Time) int {
	ref := t.CreatedAt
	if t.LastUsed != nil {
		ref = *t.LastUsed
	}

	days := int(now.Sub(ref).Hours() / 24)
	if days < 0 {
		days = 0
	}

	score := t.UsageCount*2 + t.Score - days*decayPerDay
	if score < 0 {
		return 0
	}
	return score
}

// CurrentScore computes the trigger's relevance right now.
func (e *Engine) CurrentScore(t *Trigger) int {
	return CurrentScore(t, e.now())
}

// Activate reinforces a trigger: usage count +1, last-used stamped, flat
// bonus on the stored score, persisted. Unknown ids are a silent no-op
// (callers may race with deletion).
func (e *Engine) Activate(triggerID string) error {
	t, ok := e.triggers[triggerID]
	if !ok {
		return nil
	}
	e.activate(t)
	return e.persist()
}

// activate applies the activation mutation without persisting. Callers that
// batch several activations persist once at the end.
func (e *Engine) activate(t *Trigger) {
	now := e.now()
	t.UsageCount++
	t.LastUsed = &now
	t.Score += usageBonus
}

// ApplyDailyDecay subtracts the accumulated per-day decay from every
// trigger's stored score, at most once per calendar day. The last run is
// tracked via a persisted date marker; calling it again the same day is a
// no-op.
func (e *Engine) ApplyDailyDecay() error {
	today := e.now().Format(dateLayout)

	marker, err := e.store.Get(keyLastDecay)
	if err != nil {
		log.Printf("decay: read marker: %v", err)
		marker = ""
	}
	if marker == today {
		return nil
	}

	if marker == "" {
		// First run ever: just plant the marker.
		return e.store.Put(keyLastDecay, today)
	}

	last, err := time.Parse(dateLayout, marker)
	if err != nil {
		log.Printf("decay: malformed marker %q, resetting", marker)
		return e.store.Put(keyLastDecay, today)
	}

	nowDay, _ := time.Parse(dateLayout, today)
	days := int(nowDay.Sub(last).Hours() / 24)
	if days < 1 {
		// Clock went backwards across the marker; re-plant and move on.
		return e.store.Put(keyLastDecay, today)
	}

	decayed := 0
	for _, t := range e.triggers {
		if t.Score == 0 {
			continue
		}
		t.Score -= days * decayPerDay
		if t.Score < 0 {
			t.Score = 0
		}
		decayed++
	}
	if decayed > 0 {
		log.Printf("decay: %d triggers decayed by %d day(s)", decayed, days)
	}

	if err := e.persist(); err != nil {
		return fmt.Errorf("persist decay: %w", err)
	}
	return e.store.Put(keyLastDecay, today)
}
