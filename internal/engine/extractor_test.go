package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/adour/souvenir/internal/llm"
)

func TestExtractCreatesTriggerAndMemory(t *testing.T) {
	oracle := &llm.MockOracle{ExtractResult: &llm.Extraction{
		Important: true,
		Memory: &llm.MemoryProposal{
			Content:    "Aime beaucoup son travail",
			Category:   "travail",
			Importance: 5,
		},
		Triggers: []llm.TriggerProposal{
			{Word: "Travail", Category: "travail", Synonyms: []string{"taf"}},
		},
	}}
	eng, _, _ := newTestEngine(t, oracle)

	result, err := eng.ExtractAndStore(context.Background(), "j'adore mon travail")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(result.Triggers) != 1 {
		t.Fatalf("triggers = %d, want 1", len(result.Triggers))
	}
	tr := result.Triggers[0]
	if tr.Word != "travail" {
		t.Errorf("word = %q, want travail", tr.Word)
	}
	if tr.Score != 60 {
		t.Errorf("score = %d, want 60 (base 50 + importance 5 * 2)", tr.Score)
	}
	if !containsFold(tr.Synonyms, "taf") || !containsFold(tr.Synonyms, "boulot") {
		t.Errorf("synonyms = %v, want proposal plus static expansion", tr.Synonyms)
	}

	if result.Memory == nil {
		t.Fatal("memory missing")
	}
	if result.Memory.Importance != 5 || result.Memory.Category != CategoryTravail {
		t.Errorf("memory = %+v", result.Memory)
	}
	if len(result.Memory.TriggerLinks) != 1 || result.Memory.TriggerLinks[0] != tr.ID {
		t.Errorf("memory links = %v", result.Memory.TriggerLinks)
	}
	if len(tr.MemoryLinks) != 1 || tr.MemoryLinks[0] != result.Memory.ID {
		t.Errorf("trigger links = %v", tr.MemoryLinks)
	}
}

func TestExtractReusesExistingTrigger(t *testing.T) {
	oracle := &llm.MockOracle{ExtractResult: &llm.Extraction{
		Important: true,
		Memory: &llm.MemoryProposal{
			Content:    "Nouveau projet au travail",
			Category:   "travail",
			Importance: 6,
		},
		Triggers: []llm.TriggerProposal{
			{Word: "travail", Category: "travail", Synonyms: []string{"taf"}},
		},
	}}
	eng, _, clock := newTestEngine(t, oracle)

	// Seed a trigger without static synonyms; reuse must not add them.
	err := eng.Import(&Dataset{
		Version:  DatasetVersion,
		Triggers: []Trigger{{ID: "t1", Word: "travail", Score: 50, Category: CategoryTravail, CreatedAt: clock.now}},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	result, err := eng.ExtractAndStore(context.Background(), "nouveau projet au travail")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(result.Triggers) != 1 || result.Triggers[0].ID != "t1" {
		t.Fatalf("triggers = %v, want reuse of t1", result.Triggers)
	}
	tr := result.Triggers[0]
	if tr.UsageCount != 1 || tr.Score != 55 {
		t.Errorf("usage/score = %d/%d, want 1/55", tr.UsageCount, tr.Score)
	}
	if !containsFold(tr.Synonyms, "taf") {
		t.Errorf("synonyms = %v, want proposal merged", tr.Synonyms)
	}
	if containsFold(tr.Synonyms, "boulot") {
		t.Errorf("synonyms = %v, reuse must not expand statically", tr.Synonyms)
	}
	if result.Memory == nil || len(result.Memory.TriggerLinks) != 1 {
		t.Errorf("memory = %+v, want linked to reused trigger", result.Memory)
	}
}

func TestExtractUnimportantHasNoSideEffects(t *testing.T) {
	oracle := &llm.MockOracle{ExtractResult: &llm.Extraction{Important: false}}
	eng, st, _ := newTestEngine(t, oracle)

	before := st.puts
	result, err := eng.ExtractAndStore(context.Background(), "salut, ça va ?")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(result.Triggers) != 0 || result.Memory != nil {
		t.Errorf("result = %+v, want empty", result)
	}
	if st.puts != before {
		t.Error("unimportant message persisted")
	}
	if len(eng.ListTriggers("")) != 0 || len(eng.ListMemories("")) != 0 {
		t.Error("unimportant message created data")
	}
}

func TestExtractOracleFailureIsNotAnError(t *testing.T) {
	oracle := &llm.MockOracle{ExtractErr: fmt.Errorf("model offline")}
	eng, st, _ := newTestEngine(t, oracle)

	before := st.puts
	result, err := eng.ExtractAndStore(context.Background(), "j'adore mon travail")
	if err != nil {
		t.Fatalf("oracle failure must not surface: %v", err)
	}
	if len(result.Triggers) != 0 || result.Memory != nil {
		t.Errorf("result = %+v, want empty", result)
	}
	if st.puts != before {
		t.Error("failed extraction persisted")
	}
}

func TestExtractNilOracle(t *testing.T) {
	eng, _, _ := newTestEngine(t, nil)

	result, err := eng.ExtractAndStore(context.Background(), "j'adore mon travail")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(result.Triggers) != 0 || result.Memory != nil {
		t.Errorf("result = %+v, want empty without an oracle", result)
	}
}

func TestExtractDropsShortWords(t *testing.T) {
	oracle := &llm.MockOracle{ExtractResult: &llm.Extraction{
		Important: true,
		Memory:    &llm.MemoryProposal{Content: "Fait du vélo", Category: "loisirs", Importance: 4},
		Triggers: []llm.TriggerProposal{
			{Word: "tv", Category: "loisirs"},
			{Word: "vélo", Category: "loisirs"},
		},
	}}
	eng, _, _ := newTestEngine(t, oracle)

	result, err := eng.ExtractAndStore(context.Background(), "je fais du vélo, pas de tv")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(result.Triggers) != 1 || result.Triggers[0].Word != "vélo" {
		t.Errorf("triggers = %v, want only vélo", result.Triggers)
	}
}

func TestExtractDeduplicatesWithinPass(t *testing.T) {
	oracle := &llm.MockOracle{ExtractResult: &llm.Extraction{
		Important: true,
		Memory:    &llm.MemoryProposal{Content: "Fait du sport", Category: "loisirs", Importance: 4},
		Triggers: []llm.TriggerProposal{
			{Word: "sport", Category: "loisirs"},
			{Word: "Sport", Category: "loisirs"},
		},
	}}
	eng, _, _ := newTestEngine(t, oracle)

	result, err := eng.ExtractAndStore(context.Background(), "je fais du sport")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(result.Triggers) != 1 {
		t.Errorf("triggers = %d, want duplicate word collapsed", len(result.Triggers))
	}
}

func TestExtractUnknownCategoryFallsBack(t *testing.T) {
	oracle := &llm.MockOracle{ExtractResult: &llm.Extraction{
		Important: true,
		Memory:    &llm.MemoryProposal{Content: "Collectionne les timbres", Category: "philatelie", Importance: 3},
		Triggers: []llm.TriggerProposal{
			{Word: "timbres", Category: "philatelie"},
		},
	}}
	eng, _, _ := newTestEngine(t, oracle)

	result, err := eng.ExtractAndStore(context.Background(), "je collectionne les timbres")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if result.Triggers[0].Category != CategoryAutre {
		t.Errorf("trigger category = %q, want autre", result.Triggers[0].Category)
	}
	if result.Memory.Category != CategoryAutre {
		t.Errorf("memory category = %q, want autre", result.Memory.Category)
	}
}

func TestExtractMemoryWithoutTriggers(t *testing.T) {
	oracle := &llm.MockOracle{ExtractResult: &llm.Extraction{
		Important: true,
		Memory:    &llm.MemoryProposal{Content: "Préfère le matin", Category: "personnel", Importance: 5},
	}}
	eng, _, _ := newTestEngine(t, oracle)

	result, err := eng.ExtractAndStore(context.Background(), "je préfère travailler le matin")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if result.Memory == nil || len(result.Memory.TriggerLinks) != 0 {
		t.Errorf("memory = %+v, want stored without links", result.Memory)
	}
	if len(eng.ListMemories("")) != 1 {
		t.Error("memory not stored")
	}
}
