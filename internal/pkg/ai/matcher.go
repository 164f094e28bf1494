package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MaxMatches caps every recommendation list.
const MaxMatches = 3

// FallbackResponse is recorded when keyword scoring answered.
const FallbackResponse = "Fallback: Smart Logic Match"

var (
	tokenSplit = regexp.MustCompile(`[\s,.\-]+`)

	stopWords = map[string]struct{}{
		"i": {}, "am": {}, "and": {}, "to": {}, "the": {}, "in": {}, "of": {}, "for": {}, "with": {},
		"a": {}, "an": {}, "is": {}, "are": {}, "my": {}, "looking": {}, "interested": {}, "enjoy": {},
		"like": {}, "but": {},
	}
)

// Candidate is a club as the matchmaker sees it.
type Candidate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Match is one recommended club.
type Match struct {
	ClubID string
	Reason string
	Score  int
}

// Recommendation is the shape the LLM is asked to return.
type Recommendation struct {
	ClubID string `json:"club_id"`
	Reason string `json:"reason"`
}

// Terms lowercases interest, splits it on whitespace and punctuation and
// drops short tokens and stop words.
func Terms(interest string) []string {
	var terms []string
	for _, w := range tokenSplit.Split(strings.ToLower(interest), -1) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// KeywordMatch scores every club against the interest terms: +1 when the
// term appears anywhere, +2 more when in the name, +2 more when in the
// category. Clubs scoring zero are dropped; the best MaxMatches are kept.
func KeywordMatch(interest string, clubs []Candidate) []Match {
	terms := Terms(interest)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		idx   int
		score int
	}
	var hits []scored
	for i, c := range clubs {
		name := strings.ToLower(c.Name)
		category := strings.ToLower(c.Category)
		text := name + " " + strings.ToLower(c.Description) + " " + category

		score := 0
		for _, t := range terms {
			if !strings.Contains(text, t) {
				continue
			}
			score++
			if strings.Contains(name, t) {
				score += 2
			}
			if strings.Contains(category, t) {
				score += 2
			}
		}
		if score > 0 {
			hits = append(hits, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > MaxMatches {
		hits = hits[:MaxMatches]
	}

	out := make([]Match, 0, len(hits))
	for _, h := range hits {
		out = append(out, Match{
			ClubID: clubs[h.idx].ID,
			Score:  h.score,
			Reason: fmt.Sprintf("Matches %d of your interest keywords.", h.score),
		})
	}
	return out
}

// MatchPrompt asks the model for up to three clubs as a JSON array.
func MatchPrompt(interest string, clubs []Candidate) (string, error) {
	catalog, err := json.Marshal(clubs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Act as a Club Matchmaker for a university student.
User Interest: %q
Available Clubs: %s

Task: Recommend the top 1-3 clubs that best match the user's interest.
Return ONLY a valid JSON array of objects with this structure:
[
  { "club_id": "id_from_list", "reason": "Why it matches" }
]
If no strong match, pick the closest one or return an empty array. Do not include markdown formatting.`, interest, catalog), nil
}

// ParseRecommendations decodes the model answer and keeps only ids present
// in clubs, at most MaxMatches of them.
func ParseRecommendations(text string, clubs []Candidate) ([]Match, error) {
	var recs []Recommendation
	if err := json.Unmarshal([]byte(StripFences(text)), &recs); err != nil {
		return nil, fmt.Errorf("unreadable recommendations: %w", err)
	}

	known := make(map[string]bool, len(clubs))
	for _, c := range clubs {
		known[c.ID] = true
	}

	out := make([]Match, 0, MaxMatches)
	seen := map[string]bool{}
	for _, r := range recs {
		if !known[r.ClubID] || seen[r.ClubID] {
			continue
		}
		seen[r.ClubID] = true
		out = append(out, Match{ClubID: r.ClubID, Reason: r.Reason})
		if len(out) == MaxMatches {
			break
		}
	}
	return out, nil
}

// Matcher ranks clubs with the LLM when available and keyword scoring otherwise.
type Matcher struct {
	llm TextGenerator
}

// NewMatcher creates a Matcher. llm may be nil.
func NewMatcher(llm TextGenerator) *Matcher {
	return &Matcher{llm: llm}
}

// MatchResult is what Match found and how.
type MatchResult struct {
	Matches []Match
	// Raw is the model text, or FallbackResponse when keywords answered.
	Raw string
	// LLMConfigured tells whether a model was available at all.
	LLMConfigured bool
	// LLMErr is the model failure that forced the fallback, if any.
	LLMErr error
}

// Match never fails: any model problem falls back to KeywordMatch.
func (m *Matcher) Match(ctx context.Context, interest string, clubs []Candidate) MatchResult {
	res := MatchResult{LLMConfigured: m.llm != nil && m.llm.Configured()}

	if res.LLMConfigured {
		prompt, err := MatchPrompt(interest, clubs)
		if err == nil {
			var text string
			text, err = m.llm.Generate(ctx, prompt)
			if err == nil {
				res.Raw = text
				res.Matches, err = ParseRecommendations(text, clubs)
			}
		}
		res.LLMErr = err
	}

	if len(res.Matches) == 0 {
		res.Matches = KeywordMatch(interest, clubs)
		if res.Raw == "" {
			res.Raw = FallbackResponse
		}
	}
	return res
}
