package match

import "sort"

// Status is the confidence tier assigned to a filename match.
type Status string

const (
	StatusAuto       Status = "AUTO"
	StatusNeedReview Status = "NEED_REVIEW"
	StatusNoMatch    Status = "NO_MATCH"
)

// Confidence tiers: below ReviewThreshold a match is too unreliable to
// assign even tentatively; below AutoThreshold it must be confirmed.
const (
	ReviewThreshold = 70
	AutoThreshold   = 90

	// SuggestionFloor filters the operator-facing candidate list. The best
	// guess is always populated regardless of this floor.
	SuggestionFloor = 50

	maxSuggestions = 3
)

// Candidate is one matchable catalog entry, owned by the caller.
type Candidate struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// MatchCandidate is a scored candidate for operator-assisted manual search.
type MatchCandidate struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Confidence  int    `json:"confidence"`
}

// Result is the outcome of matching one filename against the catalog.
// Created once per matching pass and never mutated afterwards.
type Result struct {
	ExtractedName  string           `json:"extracted_name"`
	NormalizedName string           `json:"normalized_name"`
	MatchedCode    string           `json:"matched_code,omitempty"`
	MatchedName    string           `json:"matched_name,omitempty"`
	Confidence     int              `json:"confidence"`
	Status         Status           `json:"status"`
	SlugCollision  bool             `json:"slug_collision"`
	TopCandidates  []MatchCandidate `json:"top_candidates"`
}

// Index holds the candidate set prepared for one matching batch. Built once,
// read-only afterwards, safe for concurrent use.
type Index struct {
	candidates []Candidate
	slugs      []string         // normalized name per candidate
	bySlug     map[string][]int // slug -> candidate positions
}

// NewIndex normalizes the candidate names and records which slugs are shared
// by two or more distinct entries (collision slugs).
func NewIndex(candidates []Candidate) *Index {
	ix := &Index{
		candidates: candidates,
		slugs:      make([]string, len(candidates)),
		bySlug:     make(map[string][]int, len(candidates)),
	}
	for i, c := range candidates {
		slug := Normalize(c.DisplayName)
		ix.slugs[i] = slug
		ix.bySlug[slug] = append(ix.bySlug[slug], i)
	}
	return ix
}

// IsCollision reports whether a slug is shared by two or more entries.
func (ix *Index) IsCollision(slug string) bool {
	return len(ix.bySlug[slug]) >= 2
}

// TopMatches scores every candidate against the normalized name and returns
// the best ones, descending by confidence, ties kept in candidate order.
func (ix *Index) TopMatches(normalized string, limit int) []MatchCandidate {
	scored := make([]MatchCandidate, 0, len(ix.candidates))
	for i, c := range ix.candidates {
		scored = append(scored, MatchCandidate{
			Code:        c.Code,
			DisplayName: c.DisplayName,
			Confidence:  Similarity(normalized, ix.slugs[i]),
		})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Confidence > scored[b].Confidence
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// MatchFilename matches one uploaded filename against the catalog. It never
// fails: with an empty candidate set or a hopeless name the result simply
// carries StatusNoMatch.
func (ix *Index) MatchFilename(filename string) Result {
	extracted := ExtractNameFromFilename(filename)
	slug := Normalize(extracted)

	res := Result{
		ExtractedName:  extracted,
		NormalizedName: slug,
		Status:         StatusNoMatch,
		TopCandidates:  []MatchCandidate{},
	}
	if len(ix.candidates) == 0 {
		return res
	}

	if positions, ok := ix.bySlug[slug]; ok && len(positions) > 0 {
		// Exact slug match.
		c := ix.candidates[positions[0]]
		res.MatchedCode = c.Code
		res.MatchedName = c.DisplayName
		res.Confidence = 100
		res.SlugCollision = len(positions) >= 2
		if res.SlugCollision {
			res.Status = StatusNeedReview
		} else {
			res.Status = StatusAuto
		}
	} else {
		// Fuzzy path: single best-scoring candidate, first wins ties.
		best := -1
		bestScore := -1
		for i := range ix.candidates {
			if score := Similarity(slug, ix.slugs[i]); score > bestScore {
				best = i
				bestScore = score
			}
		}

		c := ix.candidates[best]
		res.MatchedCode = c.Code
		res.MatchedName = c.DisplayName
		res.Confidence = bestScore
		res.SlugCollision = ix.IsCollision(ix.slugs[best])

		switch {
		case bestScore < ReviewThreshold:
			// Best guess stays populated for the operator, but the row
			// needs a manual pick.
			res.Status = StatusNoMatch
		case bestScore >= AutoThreshold && !res.SlugCollision:
			res.Status = StatusAuto
		default:
			res.Status = StatusNeedReview
		}
	}

	for _, mc := range ix.TopMatches(slug, maxSuggestions) {
		if mc.Confidence >= SuggestionFloor {
			res.TopCandidates = append(res.TopCandidates, mc)
		}
	}
	return res
}
