package similarity

import (
	"regexp"
	"sort"
	"strings"
)

const (
	jaroWinklerPrefixBoost = 0.1
	jaroWinklerMaxPrefix   = 4
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Jaro computes the Jaro similarity between two strings
func Jaro(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)
	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	matchDistance := maxInt(len1, len2)/2 - 1
	if matchDistance < 0 {
		matchDistance = 0
	}

	matched1 := make([]bool, len1)
	matched2 := make([]bool, len2)

	matches := 0
	for i := 0; i < len1; i++ {
		start := maxInt(0, i-matchDistance)
		end := minInt(len2-1, i+matchDistance)
		for j := start; j <= end; j++ {
			if matched2[j] || r1[i] != r2[j] {
				continue
			}
			matched1[i] = true
			matched2[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := 0; i < len1; i++ {
		if !matched1[i] {
			continue
		}
		for !matched2[k] {
			k++
		}
		if r1[i] != r2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2.0
	return (m/float64(len1) + m/float64(len2) + (m-t)/m) / 3.0
}

// JaroWinkler computes the Jaro-Winkler similarity, boosting strings that
// share a common prefix of up to four characters
func JaroWinkler(s1, s2 string) float64 {
	jaro := Jaro(s1, s2)
	if jaro == 0 {
		return 0
	}

	prefix := 0
	r1 := []rune(s1)
	r2 := []rune(s2)
	for i := 0; i < minInt(minInt(len(r1), len(r2)), jaroWinklerMaxPrefix); i++ {
		if r1[i] != r2[i] {
			break
		}
		prefix++
	}

	score := jaro + float64(prefix)*jaroWinklerPrefixBoost*(1.0-jaro)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// LevenshteinDistance computes the edit distance between two strings using
// the two-row dynamic programming formulation
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = minInt(minInt(curr[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// LevenshteinRatio normalizes edit distance into a [0, 1] similarity
func LevenshteinRatio(s1, s2 string) float64 {
	maxLen := maxInt(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(LevenshteinDistance(s1, s2))/float64(maxLen)
}

// TokenSetRatio compares the word sets of two strings, ignoring word order
// and duplication. Names sharing the same words in a different arrangement
// score close to 1.
func TokenSetRatio(s1, s2 string) float64 {
	tokens1 := tokenSet(s1)
	tokens2 := tokenSet(s2)
	if len(tokens1) == 0 && len(tokens2) == 0 {
		return 1.0
	}
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0.0
	}

	var intersection, diff1, diff2 []string
	for tok := range tokens1 {
		if _, ok := tokens2[tok]; ok {
			intersection = append(intersection, tok)
		} else {
			diff1 = append(diff1, tok)
		}
	}
	for tok := range tokens2 {
		if _, ok := tokens1[tok]; !ok {
			diff2 = append(diff2, tok)
		}
	}
	sort.Strings(intersection)
	sort.Strings(diff1)
	sort.Strings(diff2)

	base := strings.Join(intersection, " ")
	combined1 := strings.TrimSpace(base + " " + strings.Join(diff1, " "))
	combined2 := strings.TrimSpace(base + " " + strings.Join(diff2, " "))

	best := LevenshteinRatio(base, combined1)
	if r := LevenshteinRatio(base, combined2); r > best {
		best = r
	}
	if r := LevenshteinRatio(combined1, combined2); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	tokens := tokenPattern.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
