package domain

import (
	"math"
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Exact slug match bonus (huge boost)
	ScoreExactSlugBonus = 200.0

	// City qualifier match
	ScoreCityMatch = 30.0

	// Popularity weight (view counter contributes to final score)
	ScorePopularityWeight = 0.1
)

// Candidate represents a tour candidate with its match score
type Candidate struct {
	Tour            *Tour
	LexicalScore    float64 // Score from fuzzy matching
	PopularityScore float64 // Score from recorded views
	TotalScore      float64 // Combined score
}

// Score calculates the match score for a tour against a query. Every query
// word must match one of the tour's words; a city qualifier must match the
// tour's city.
func Score(query *Query, tour *Tour) float64 {
	if query.Empty() || tour == nil {
		return 0.0
	}

	var totalScore float64

	if query.City != "" {
		cityScore := scoreCity(query.City, tour)
		if cityScore == 0.0 {
			return 0.0
		}
		totalScore += cityScore
	}

	if len(query.Fragments) == 0 {
		return totalScore
	}

	if strings.Join(query.Fragments, "") == normalizeFragment(tour.Slug) {
		totalScore += ScoreExactSlugBonus
	}

	words := TourWords(tour)
	for _, qFrag := range query.Fragments {
		bestScore := 0.0
		for i, word := range words {
			if score := scoreFragment(qFrag, word, i); score > bestScore {
				bestScore = score
			}
		}
		if bestScore == 0.0 {
			return 0.0
		}
		totalScore += bestScore
	}

	return totalScore
}

func scoreCity(city string, tour *Tour) float64 {
	slug := normalizeFragment(tour.CitySlug)
	name := normalizeFragment(tour.City)
	switch {
	case city == slug || city == name:
		return ScoreCityMatch
	case strings.HasPrefix(slug, city) || (name != "" && strings.HasPrefix(name, city)):
		return ScoreCityMatch / 2
	}
	return 0.0
}

// scoreFragment scores a single query fragment against a tour word
func scoreFragment(queryFrag, word string, position int) float64 {
	queryFrag = normalizeFragment(queryFrag)
	word = normalizeFragment(word)

	if queryFrag == "" || word == "" {
		return 0.0
	}

	// Exact match
	if queryFrag == word {
		return ScoreExactMatch + calculatePositionBonus(position)
	}

	// Prefix match
	if strings.HasPrefix(word, queryFrag) {
		return ScorePrefixMatch + calculatePositionBonus(position)
	}

	// Substring match
	if index := strings.Index(word, queryFrag); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(word)))
		return ScoreSubstringMatch + substringBonus
	}

	// Fuzzy match, only for words long enough to carry typos
	if len([]rune(queryFrag)) < 4 {
		return 0.0
	}
	similarity := calculateSimilarity(queryFrag, word)
	if similarity > 0.75 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculatePositionBonus gives bonus for earlier positions
func calculatePositionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// calculateSimilarity is the share of query runes found in the word
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	matches, total := 0, 0
	for _, c := range s1 {
		total++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

// PopularityScore is the logarithmic contribution of views, so the most
// viewed tours cannot dominate lexical relevance.
func PopularityScore(views int64) float64 {
	if views <= 0 {
		return 0.0
	}
	return math.Log10(float64(views)+1) * ScorePopularityWeight * 100
}

// RankCandidates ranks tour candidates by combining lexical and popularity scores
func RankCandidates(query *Query, tours []*Tour) []*Candidate {
	candidates := make([]*Candidate, 0, len(tours))

	for _, tour := range tours {
		if tour.Disabled {
			continue
		}

		lexicalScore := Score(query, tour)
		if lexicalScore == 0.0 {
			continue
		}

		popularity := PopularityScore(tour.Views)
		candidates = append(candidates, &Candidate{
			Tour:            tour,
			LexicalScore:    lexicalScore,
			PopularityScore: popularity,
			TotalScore:      lexicalScore + popularity,
		})
	}

	sortCandidates(candidates)
	return candidates
}

// sortCandidates sorts by total score (descending), ties by path
func sortCandidates(candidates []*Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TotalScore != candidates[j].TotalScore {
			return candidates[i].TotalScore > candidates[j].TotalScore
		}
		return candidates[i].Tour.Path() < candidates[j].Tour.Path()
	})
}

// FindBestMatch finds the best matching tour for a query
func FindBestMatch(query *Query, tours []*Tour) *Tour {
	candidates := RankCandidates(query, tours)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0].Tour
}
