package memory

import (
	"sort"
	"strings"
)

// recallWindow bounds how much history keyword scoring scans.
const recallWindow = 500

// Recall returns up to limit past interactions relevant to query,
// ranked by keyword overlap. Ties break toward the more recent
// interaction via a single stable sort over (score desc, time desc)
// rather than layered re-sorts.
func (s *Store) Recall(query string, limit int) ([]Interaction, error) {
	terms := tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	recent, err := s.Recent(recallWindow)
	if err != nil {
		return nil, err
	}

	type scored struct {
		in    Interaction
		score int
	}
	var hits []scored
	for _, in := range recent {
		sc := overlap(terms, tokenize(in.Utterance))
		for _, tool := range in.Tools {
			sc += overlap(terms, tokenize(strings.ReplaceAll(tool, "_", " ")))
		}
		if sc > 0 {
			hits = append(hits, scored{in: in, score: sc})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].in.Timestamp.After(hits[j].in.Timestamp)
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Interaction, len(hits))
	for i, h := range hits {
		out[i] = h.in
	}
	return out, nil
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "to": {}, "of": {}, "and": {},
	"i": {}, "you": {}, "it": {}, "my": {}, "me": {}, "on": {}, "in": {},
	"did": {}, "do": {}, "was": {}, "what": {}, "when": {},
}

func tokenize(text string) []string {
	var out []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,!?;:\"'")
		if f == "" {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

func overlap(terms, words []string) int {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	n := 0
	for _, t := range terms {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
