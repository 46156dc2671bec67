// Package abbrev expands abbreviated schema element names into their full
// forms and generates naming-convention variations for matching.
package abbrev

import (
	"regexp"
	"strings"
)

var (
	camelBoundary    = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	camelCasePattern = regexp.MustCompile(`^[a-z]+(?:[A-Z][a-z0-9]*)+$`)
	wordSplitter     = regexp.MustCompile(`[_\-\s]+`)
)

// Expander expands abbreviations using a dictionary and, when a whole token
// is unknown, greedy longest-prefix matching against the same dictionary.
type Expander struct {
	dictionary map[string]string
	fullWords  map[string]struct{}
}

// NewExpander returns an Expander over the given dictionary. A nil dictionary
// falls back to the built-in banking set.
func NewExpander(dictionary map[string]string) *Expander {
	if dictionary == nil {
		dictionary = DefaultDictionary()
	}
	// words that are already full forms must never be re-decomposed
	// ("customer" must not become "cust" + "omer")
	fullWords := make(map[string]struct{})
	for _, full := range dictionary {
		for _, word := range strings.Split(full, "_") {
			fullWords[word] = struct{}{}
		}
	}
	return &Expander{dictionary: dictionary, fullWords: fullWords}
}

// Expand returns the snake_case expansion of text. Unknown tokens pass
// through unchanged, so Expand is always safe to call.
func (e *Expander) Expand(text string) string {
	if text == "" {
		return ""
	}
	snake := ToSnakeCase(text)
	tokens := wordSplitter.Split(strings.ToLower(snake), -1)
	expanded := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		expanded = append(expanded, e.expandToken(token))
	}
	return strings.Join(expanded, "_")
}

// expandToken expands one lowercase token: direct dictionary lookup first,
// then greedy longest-prefix decomposition, appending any unmatched remainder
// verbatim. Prefixes shorter than two runes never match.
func (e *Expander) expandToken(token string) string {
	if full, ok := e.dictionary[token]; ok {
		return full
	}
	if _, ok := e.fullWords[token]; ok {
		return token
	}
	var parts []string
	rest := token
	for rest != "" {
		matched := false
		for n := len(rest); n >= 2; n-- {
			if full, ok := e.dictionary[rest[:n]]; ok {
				parts = append(parts, full)
				rest = rest[n:]
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	if len(parts) == 0 {
		return token
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, "_")
}

// Variations returns the set of name forms worth comparing for text: the
// original, case variants, the expansion and its camel/Pascal forms,
// delimiter swaps, and initialisms. Order is deterministic and duplicates
// are removed.
func (e *Expander) Variations(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	variations := []string{text, lower, strings.ToUpper(text)}

	expanded := e.Expand(text)
	if expanded != "" && expanded != lower {
		variations = append(variations,
			expanded,
			ToCamelCase(expanded),
			ToPascalCase(expanded),
		)
	}

	if strings.Contains(text, "_") {
		variations = append(variations,
			strings.ReplaceAll(lower, "_", ""),
			strings.ReplaceAll(lower, "_", " "),
		)
	}

	if camelCasePattern.MatchString(text) {
		snake := ToSnakeCase(text)
		variations = append(variations, snake, strings.ReplaceAll(snake, "_", " "))
	}

	if !strings.ContainsAny(text, "_-") {
		words := ExtractWords(text)
		if len(words) > 1 {
			initials := make([]string, len(words))
			for i, w := range words {
				initials[i] = strings.ToUpper(w[:1])
			}
			variations = append(variations,
				strings.Join(initials, ""),
				strings.Join(initials, "_"),
			)
		}
	}

	return dedupe(variations)
}

// ExtractWords splits a name into its component words, handling camelCase,
// snake_case, kebab-case, and space-delimited names.
func ExtractWords(text string) []string {
	spaced := camelBoundary.ReplaceAllString(text, "$1 $2")
	raw := wordSplitter.Split(strings.ReplaceAll(spaced, " ", "_"), -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

// ToSnakeCase converts camelCase or PascalCase to snake_case
func ToSnakeCase(text string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(text, "${1}_${2}"))
}

// ToCamelCase converts snake_case to camelCase
func ToCamelCase(text string) string {
	words := strings.Split(text, "_")
	for i := 1; i < len(words); i++ {
		words[i] = capitalize(words[i])
	}
	return strings.Join(words, "")
}

// ToPascalCase converts snake_case to PascalCase
func ToPascalCase(text string) string {
	words := strings.Split(text, "_")
	for i := range words {
		words[i] = capitalize(words[i])
	}
	return strings.Join(words, "")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
