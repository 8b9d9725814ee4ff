package engine

import "testing"

func TestExpandSynonymsHeadWord(t *testing.T) {
	got := ExpandSynonyms("Travail")

	for _, want := range []string{"boulot", "job", "bureau"} {
		if !containsFold(got, want) {
			t.Errorf("ExpandSynonyms(travail) missing %q: %v", want, got)
		}
	}
	if containsFold(got, "travail") {
		t.Errorf("expansion must not contain the input: %v", got)
	}
}

func TestExpandSynonymsReverseLookup(t *testing.T) {
	got := ExpandSynonyms("boulot")

	if !containsFold(got, "travail") {
		t.Errorf("ExpandSynonyms(boulot) missing head word travail: %v", got)
	}
	if !containsFold(got, "job") {
		t.Errorf("ExpandSynonyms(boulot) missing sibling job: %v", got)
	}
	if containsFold(got, "boulot") {
		t.Errorf("expansion must not contain the input: %v", got)
	}
}

func TestExpandSynonymsSharedVariant(t *testing.T) {
	// "copine" appears under both amis and relation.
	got := ExpandSynonyms("copine")

	if !containsFold(got, "amis") || !containsFold(got, "relation") {
		t.Errorf("ExpandSynonyms(copine) missing head words: %v", got)
	}
}

func TestExpandSynonymsUnknownWord(t *testing.T) {
	if got := ExpandSynonyms("zzzinconnu"); len(got) != 0 {
		t.Errorf("ExpandSynonyms(zzzinconnu) = %v, want empty", got)
	}
}
