package services

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// MaxKeywords is how many ranked words ExtractKeywords returns.
	MaxKeywords = 10
	// MaxSuggestedTags bounds every tag suggestion list.
	MaxSuggestedTags = 5
	minWordLength    = 3
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	nonTagChar = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
)

var stopWords = map[string]struct{}{
	"the": {}, "be": {}, "to": {}, "of": {}, "and": {}, "a": {}, "in": {}, "that": {},
	"have": {}, "i": {}, "it": {}, "for": {}, "not": {}, "on": {}, "with": {}, "he": {},
	"as": {}, "you": {}, "do": {}, "at": {}, "this": {}, "but": {}, "his": {}, "by": {},
	"from": {}, "they": {}, "we": {}, "say": {}, "her": {}, "she": {}, "or": {}, "an": {},
	"will": {}, "my": {}, "one": {}, "all": {}, "would": {}, "there": {}, "their": {},
	"what": {}, "so": {}, "up": {}, "out": {}, "if": {}, "about": {}, "who": {}, "get": {},
	"which": {}, "go": {}, "me": {},
}

// ExtractKeywords returns up to MaxKeywords of the most frequent words in text.
// Punctuation is treated as whitespace, stop words and words shorter than three
// characters are skipped, and ties keep the order of first appearance.
func ExtractKeywords(text string) []string {
	text = nonWord.ReplaceAllString(strings.ToLower(text), " ")

	type entry struct {
		word  string
		count int
		first int
	}
	counts := make(map[string]*entry)
	for i, w := range strings.Fields(text) {
		if _, stop := stopWords[w]; stop || len([]rune(w)) < minWordLength {
			continue
		}
		if e, ok := counts[w]; ok {
			e.count++
			continue
		}
		counts[w] = &entry{word: w, count: 1, first: i}
	}

	ranked := make([]*entry, 0, len(counts))
	for _, e := range counts {
		ranked = append(ranked, e)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > MaxKeywords {
		ranked = ranked[:MaxKeywords]
	}
	out := make([]string, len(ranked))
	for i, e := range ranked {
		out[i] = e.word
	}
	return out
}

// CleanTags lowercases candidates, strips characters other than letters,
// digits, underscores and hyphens, turns spaces into hyphens and keeps the
// first MaxSuggestedTags distinct results longer than two characters.
func CleanTags(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, MaxSuggestedTags)
	for _, c := range candidates {
		tag := nonTagChar.ReplaceAllString(strings.ToLower(strings.TrimSpace(c)), "")
		tag = strings.Join(strings.Fields(tag), "-")
		if len([]rune(tag)) < minWordLength {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == MaxSuggestedTags {
			break
		}
	}
	return out
}

// SuggestTags is the offline tag generator: keywords of the content and the
// base name of the file, cleaned.
func SuggestTags(content, fileName string) []string {
	keywords := ExtractKeywords(content)
	if len(keywords) < MaxSuggestedTags && fileName != "" {
		base := fileName
		if i := strings.LastIndexByte(base, '.'); i > 0 {
			base = base[:i]
		}
		keywords = append(keywords, ExtractKeywords(base)...)
	}
	return CleanTags(keywords)
}
