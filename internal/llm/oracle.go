package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Oracle is the narrow contract the engine consumes: structured result or
// failure. All best-effort parsing of free-text LLM replies stays on this
// side of the boundary.
type Oracle interface {
	// Similarity returns a semantic similarity score in [0,1] between two texts.
	Similarity(ctx context.Context, a, b string) (float64, error)
	// Extract analyzes a raw message and returns the structured extraction.
	Extract(ctx context.Context, message string) (*Extraction, error)
}

// Extraction is the structured result of analyzing one message.
type Extraction struct {
	Important bool              `json:"important"`
	Memory    *MemoryProposal   `json:"memory"`
	Triggers  []TriggerProposal `json:"triggers"`
}

// MemoryProposal is a proposed memory summary.
type MemoryProposal struct {
	Content    string `json:"content"`
	Category   string `json:"category"`
	Importance int    `json:"importance"`
}

// TriggerProposal is a proposed trigger word with suggested synonyms.
type TriggerProposal struct {
	Word     string   `json:"word"`
	Category string   `json:"category"`
	Synonyms []string `json:"synonyms"`
}

// maxProposedTriggers caps how many trigger proposals survive parsing.
const maxProposedTriggers = 5

// Analyzer implements Oracle on top of a completion Client.
type Analyzer struct {
	client Client
}

// NewAnalyzer wraps a completion client as an Oracle.
func NewAnalyzer(client Client) *Analyzer {
	return &Analyzer{client: client}
}

// Similarity asks the model to rate two texts and parses the first decimal
// in the reply, clamped to [0,1].
func (a *Analyzer) Similarity(ctx context.Context, textA, textB string) (float64, error) {
	resp, err := a.client.Complete(ctx, SimilarityPrompt(textA, textB))
	if err != nil {
		return 0, fmt.Errorf("similarity completion: %w", err)
	}
	return parseSimilarity(resp.Content)
}

// Extract asks the model to analyze a message and parses the first JSON
// object in the reply.
func (a *Analyzer) Extract(ctx context.Context, message string) (*Extraction, error) {
	resp, err := a.client.Complete(ctx, ExtractionPrompt(message))
	if err != nil {
		return nil, fmt.Errorf("extraction completion: %w", err)
	}
	return parseExtraction(resp.Content)
}

// parseSimilarity extracts the first decimal number from the reply and
// clamps it to [0,1].
func parseSimilarity(content string) (float64, error) {
	content = strings.TrimSpace(content)

	start := -1
	for i, r := range content {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, fmt.Errorf("no number found in similarity response")
	}

	end := start
	for end < len(content) && (content[end] >= '0' && content[end] <= '9' || content[end] == '.') {
		end++
	}

	v, err := strconv.ParseFloat(strings.TrimRight(content[start:end], "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse similarity %q: %w", content[start:end], err)
	}

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}

// parseExtraction pulls the first well-formed JSON object out of the reply.
// The reply might contain markdown code fences or other wrapper text.
func parseExtraction(content string) (*Extraction, error) {
	content = strings.TrimSpace(content)

	// Strip markdown code fences if present
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var ex Extraction
	if err := json.Unmarshal([]byte(content[start:end+1]), &ex); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}

	if len(ex.Triggers) > maxProposedTriggers {
		ex.Triggers = ex.Triggers[:maxProposedTriggers]
	}
	return &ex, nil
}
