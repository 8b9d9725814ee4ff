package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestParseSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "bare number", in: "0.8", want: 0.8},
		{name: "number with label", in: "Score: 0.75", want: 0.75},
		{name: "integer one", in: "1", want: 1},
		{name: "zero", in: "0", want: 0},
		{name: "trailing prose", in: "0.9 because both concern work", want: 0.9},
		{name: "clamped above one", in: "2.5", want: 1},
		{name: "trailing dot", in: "0.", want: 0},
		{name: "no number", in: "these are unrelated", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSimilarity(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSimilarity(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSimilarity(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseSimilarity(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseExtraction(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		ex, err := parseExtraction(`{"important": true, "memory": {"content": "Aime son travail", "category": "travail", "importance": 7}, "triggers": [{"word": "travail", "category": "travail", "synonyms": ["boulot"]}]}`)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !ex.Important || ex.Memory == nil || ex.Memory.Importance != 7 {
			t.Errorf("extraction = %+v", ex)
		}
		if len(ex.Triggers) != 1 || ex.Triggers[0].Word != "travail" {
			t.Errorf("triggers = %+v", ex.Triggers)
		}
	})

	t.Run("fenced json", func(t *testing.T) {
		ex, err := parseExtraction("```json\n{\"important\": false}\n```")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if ex.Important {
			t.Error("important = true, want false")
		}
	})

	t.Run("wrapped in prose", func(t *testing.T) {
		ex, err := parseExtraction(`Here is my analysis: {"important": true, "triggers": []} Hope this helps!`)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !ex.Important {
			t.Error("important = false, want true")
		}
	})

	t.Run("trigger cap", func(t *testing.T) {
		var words []string
		for i := 0; i < 8; i++ {
			words = append(words, fmt.Sprintf(`{"word": "mot%d"}`, i))
		}
		ex, err := parseExtraction(`{"important": true, "triggers": [` + strings.Join(words, ",") + `]}`)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(ex.Triggers) != maxProposedTriggers {
			t.Errorf("triggers = %d, want %d", len(ex.Triggers), maxProposedTriggers)
		}
	})

	t.Run("no json object", func(t *testing.T) {
		if _, err := parseExtraction("nothing to see here"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := parseExtraction(`{"important": tru`); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestAnalyzerSimilarity(t *testing.T) {
	client := &MockClient{Response: &Response{Content: "0.85"}}
	a := NewAnalyzer(client)

	got, err := a.Similarity(context.Background(), "j'adore mon travail", "travail")
	if err != nil {
		t.Fatalf("similarity: %v", err)
	}
	if got != 0.85 {
		t.Errorf("similarity = %v, want 0.85", got)
	}
	if len(client.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(client.Calls))
	}
	if !strings.Contains(client.Calls[0], "j'adore mon travail") || !strings.Contains(client.Calls[0], "travail") {
		t.Errorf("prompt missing texts: %q", client.Calls[0])
	}
}

func TestAnalyzerSimilarityClientError(t *testing.T) {
	client := &MockClient{Err: fmt.Errorf("connection refused")}
	a := NewAnalyzer(client)

	if _, err := a.Similarity(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error")
	}
}

func TestAnalyzerExtract(t *testing.T) {
	client := &MockClient{Response: &Response{Content: `{"important": true, "memory": {"content": "x", "importance": 5}}`}}
	a := NewAnalyzer(client)

	ex, err := a.Extract(context.Background(), "j'adore mon travail")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !ex.Important || ex.Memory == nil {
		t.Errorf("extraction = %+v", ex)
	}
	if len(client.Calls) != 1 || !strings.Contains(client.Calls[0], "j'adore mon travail") {
		t.Errorf("prompt missing message: %v", client.Calls)
	}
}
