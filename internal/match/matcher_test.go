package match

import "testing"

func TestSimilarity(t *testing.T) {
	if got := Similarity("ten-zaru-udon", "ten-zaru-udon"); got != 100 {
		t.Fatalf("identical strings: got %d, want 100", got)
	}
	if got := Similarity("", "x"); got != 0 {
		t.Fatalf("empty vs non-empty: got %d, want 0", got)
	}
	if got := Similarity("x", ""); got != 0 {
		t.Fatalf("non-empty vs empty: got %d, want 0", got)
	}
	if got := Similarity("", ""); got != 100 {
		t.Fatalf("empty vs empty: got %d, want 100", got)
	}

	a, b := "ten-zaru-udon", "ten-zaru-udo"
	if Similarity(a, b) != Similarity(b, a) {
		t.Fatalf("similarity is not symmetric for %q / %q", a, b)
	}

	// one deletion against 13 runes: round(100*12/13) = 92
	if got := Similarity("ten-zaru-udon", "ten-zaru-udo"); got != 92 {
		t.Fatalf("single deletion: got %d, want 92", got)
	}
}

func testCandidates() []Candidate {
	return []Candidate{
		{Code: "P011", DisplayName: "Ten Zaru Udon"},
		{Code: "P012", DisplayName: "Tori Karaage"},
		{Code: "P013", DisplayName: "Miso Soup"},
		{Code: "P014", DisplayName: "Ebi Tempura"},
		{Code: "P015", DisplayName: "EBI TEMPURA"}, // collides with P014
	}
}

func TestMatchExactNoCollision(t *testing.T) {
	ix := NewIndex(testCandidates())

	res := ix.MatchFilename("P011 Ten Zaru Udon.jpg")
	if res.ExtractedName != "Ten Zaru Udon" {
		t.Fatalf("extracted name = %q", res.ExtractedName)
	}
	if res.NormalizedName != "ten-zaru-udon" {
		t.Fatalf("normalized name = %q", res.NormalizedName)
	}
	if res.Status != StatusAuto {
		t.Fatalf("status = %s, want AUTO", res.Status)
	}
	if res.Confidence != 100 || res.MatchedCode != "P011" {
		t.Fatalf("got code %q confidence %d", res.MatchedCode, res.Confidence)
	}
	if res.SlugCollision {
		t.Fatalf("unexpected slug collision")
	}
}

func TestMatchExactCollision(t *testing.T) {
	ix := NewIndex(testCandidates())

	res := ix.MatchFilename("ebi tempura.png")
	if res.Status != StatusNeedReview {
		t.Fatalf("status = %s, want NEED_REVIEW", res.Status)
	}
	if !res.SlugCollision {
		t.Fatalf("expected slug collision")
	}
	if res.Confidence != 100 {
		t.Fatalf("confidence = %d, want 100", res.Confidence)
	}
	// first candidate in input order wins the population
	if res.MatchedCode != "P014" {
		t.Fatalf("matched code = %q, want P014", res.MatchedCode)
	}
}

func TestMatchFuzzyAuto(t *testing.T) {
	ix := NewIndex(testCandidates())

	// "ten-zaru-udo" is one edit from "ten-zaru-udon": confidence 92
	res := ix.MatchFilename("Ten Zaru Udo.jpg")
	if res.Status != StatusAuto {
		t.Fatalf("status = %s (confidence %d), want AUTO", res.Status, res.Confidence)
	}
	if res.MatchedCode != "P011" {
		t.Fatalf("matched code = %q", res.MatchedCode)
	}
}

func TestMatchFuzzyHighConfidenceCollision(t *testing.T) {
	ix := NewIndex(testCandidates())

	// "ebi-tempur" is one edit from the duplicated "ebi-tempura": 91
	res := ix.MatchFilename("Ebi Tempur.jpg")
	if res.Confidence < AutoThreshold {
		t.Fatalf("test setup: confidence %d fell below %d", res.Confidence, AutoThreshold)
	}
	if res.Status != StatusNeedReview {
		t.Fatalf("status = %s, want NEED_REVIEW on collision", res.Status)
	}
}

func TestMatchFuzzyNeedReview(t *testing.T) {
	ix := NewIndex(testCandidates())

	// "ten-zar-udn" is two edits from "ten-zaru-udon": 85
	res := ix.MatchFilename("Ten Zar Udn.jpg")
	if res.Confidence < ReviewThreshold || res.Confidence >= AutoThreshold {
		t.Fatalf("test setup: confidence %d outside [%d,%d)", res.Confidence, ReviewThreshold, AutoThreshold)
	}
	if res.Status != StatusNeedReview {
		t.Fatalf("status = %s, want NEED_REVIEW", res.Status)
	}
	if res.MatchedCode != "P011" {
		t.Fatalf("matched code = %q", res.MatchedCode)
	}
}

func TestMatchNoMatchKeepsBestGuess(t *testing.T) {
	ix := NewIndex(testCandidates())

	res := ix.MatchFilename("completely unrelated photo.jpg")
	if res.Status != StatusNoMatch {
		t.Fatalf("status = %s, want NO_MATCH", res.Status)
	}
	if res.MatchedCode == "" {
		t.Fatalf("best guess should stay populated even below the review threshold")
	}
	if res.Confidence >= ReviewThreshold {
		t.Fatalf("test setup: confidence %d too high", res.Confidence)
	}
}

func TestMatchEmptyCandidates(t *testing.T) {
	ix := NewIndex(nil)

	res := ix.MatchFilename("anything.jpg")
	if res.Status != StatusNoMatch {
		t.Fatalf("status = %s, want NO_MATCH", res.Status)
	}
	if res.MatchedCode != "" || len(res.TopCandidates) != 0 {
		t.Fatalf("empty candidate set must yield an empty result: %+v", res)
	}
}

func TestTopCandidates(t *testing.T) {
	ix := NewIndex(testCandidates())

	res := ix.MatchFilename("ebi tempura.png")
	if len(res.TopCandidates) == 0 || len(res.TopCandidates) > 3 {
		t.Fatalf("top candidates size = %d", len(res.TopCandidates))
	}
	for i, mc := range res.TopCandidates {
		if mc.Confidence < SuggestionFloor {
			t.Fatalf("candidate %d below floor: %d", i, mc.Confidence)
		}
		if i > 0 && res.TopCandidates[i-1].Confidence < mc.Confidence {
			t.Fatalf("top candidates not sorted: %+v", res.TopCandidates)
		}
	}
	// both colliding entries score 100; input order must be preserved
	if res.TopCandidates[0].Code != "P014" || res.TopCandidates[1].Code != "P015" {
		t.Fatalf("tie break not stable: %+v", res.TopCandidates)
	}
}
