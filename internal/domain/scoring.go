package domain

import (
	"math"
	"sort"
	"strings"
)

// Scoring weights
const (
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Bonus for earlier substring matches
	ScorePositionBonus = 10.0

	// Typing the id exactly always wins over any name match
	ScoreExactIDBonus = 200.0

	// Weight applied to the usage (launch count) score
	ScoreUsageWeight = 0.1
)

// GroupCandidate is a group with its match score.
type GroupCandidate struct {
	Group        LinkGroup
	LexicalScore float64
	UsageScore   float64
	TotalScore   float64
}

// ScoreGroup calculates how well a query matches a group's id and name.
func ScoreGroup(query string, g LinkGroup) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0.0
	}

	if query == strings.ToLower(g.ID) {
		return ScoreExactMatch + ScoreExactIDBonus
	}

	name := strings.ToLower(g.Name)
	if name == "" {
		return 0.0
	}

	// Exact match
	if query == name {
		return ScoreExactMatch
	}

	// Prefix match
	if strings.HasPrefix(name, query) {
		return ScorePrefixMatch
	}

	// Substring match, earlier is better
	if index := strings.Index(name, query); index >= 0 {
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(index)/float64(len(name)))
	}

	// Every query word appears somewhere in the name
	queryWords := strings.Fields(query)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(name, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	// Character similarity
	similarity := calculateSimilarity(query, name)
	if similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculateSimilarity is the ratio of query runes found in s.
func calculateSimilarity(query, s string) float64 {
	if query == "" || s == "" {
		return 0.0
	}

	matches, total := 0, 0
	for _, c := range query {
		total++
		if strings.ContainsRune(s, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

// RankGroups ranks groups by lexical score plus a logarithmic usage bonus.
// usage maps group id to launch count and may be nil.
func RankGroups(query string, groups []LinkGroup, usage map[string]int64) []*GroupCandidate {
	candidates := make([]*GroupCandidate, 0, len(groups))

	for _, g := range groups {
		lexicalScore := ScoreGroup(query, g)
		if lexicalScore == 0.0 {
			continue
		}

		// Logarithmic to prevent dominance
		usageScore := 0.0
		if n := usage[g.ID]; n > 0 {
			usageScore = math.Log10(float64(n)+1) * ScoreUsageWeight * 100
		}

		candidates = append(candidates, &GroupCandidate{
			Group:        g,
			LexicalScore: lexicalScore,
			UsageScore:   usageScore,
			TotalScore:   lexicalScore + usageScore,
		})
	}

	// Stable keeps configuration order between equal scores
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})

	return candidates
}

// FindBestGroup returns the best match for query, if any.
func FindBestGroup(query string, groups []LinkGroup, usage map[string]int64) (LinkGroup, bool) {
	candidates := RankGroups(query, groups, usage)
	if len(candidates) == 0 {
		return LinkGroup{}, false
	}
	return candidates[0].Group, true
}
