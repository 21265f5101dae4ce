package matching

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/camelcase"
)

// DefaultStopWords are dropped from every keyword set.
var DefaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at",
	"to", "for", "of", "with", "by", "occurs",
}

// wordPattern matches runs of word characters, Unicode letters and digits included.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// KeywordExtractor turns free text into a set of significant terms.
type KeywordExtractor struct {
	stop             map[string]struct{}
	splitIdentifiers bool
}

// NewKeywordExtractor builds an extractor that ignores DefaultStopWords plus extra.
func NewKeywordExtractor(extra ...string) *KeywordExtractor {
	stop := make(map[string]struct{}, len(DefaultStopWords)+len(extra))
	for _, w := range DefaultStopWords {
		stop[w] = struct{}{}
	}
	for _, w := range extra {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &KeywordExtractor{stop: stop}
}

// SplittingIdentifiers returns a copy of k that also breaks camelCase and
// snake_case identifiers into their words, so "NullPointerException"
// yields null, pointer and exception.
func (k *KeywordExtractor) SplittingIdentifiers() *KeywordExtractor {
	return &KeywordExtractor{stop: k.stop, splitIdentifiers: true}
}

// Extract returns the lowercase tokens of text longer than two characters
// that are not stop-words.
func (k *KeywordExtractor) Extract(text string) map[string]struct{} {
	words := wordPattern.FindAllString(text, -1)
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if !k.splitIdentifiers {
			k.add(out, w)
			continue
		}
		for _, part := range camelcase.Split(w) {
			k.add(out, part)
		}
	}
	return out
}

func (k *KeywordExtractor) add(set map[string]struct{}, word string) {
	w := strings.ToLower(word)
	if utf8.RuneCountInString(w) <= 2 {
		return
	}
	if _, skip := k.stop[w]; skip {
		return
	}
	set[w] = struct{}{}
}

var defaultExtractor = NewKeywordExtractor()

// ExtractKeywords extracts keywords using the default stop-word list.
func ExtractKeywords(text string) map[string]struct{} {
	return defaultExtractor.Extract(text)
}

// jaccard returns |a∩b| / |a∪b| and the sorted intersection.
func jaccard(a, b map[string]struct{}) (float64, []string) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}
	var common []string
	for w := range a {
		if _, ok := b[w]; ok {
			common = append(common, w)
		}
	}
	union := len(a) + len(b) - len(common)
	if union == 0 {
		return 0, nil
	}
	sort.Strings(common)
	return float64(len(common)) / float64(union), common
}
