package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	text := "Graph layouts! Graph nodes, graph edges. Nodes and the edges of a graph: layouts."
	assert.Equal(t, []string{"graph", "layouts", "nodes", "edges"}, ExtractKeywords(text))
}

func TestExtractKeywords_SkipsStopWordsAndShortWords(t *testing.T) {
	assert.Empty(t, ExtractKeywords("the to of and a in it is on an at by go me"))
	assert.Equal(t, []string{"cat"}, ExtractKeywords("a cat is ok"))
}

func TestExtractKeywords_TopTenByFrequencyThenFirstSeen(t *testing.T) {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet", "kilo", "lima"}
	text := strings.Join(words, " ") + " lima lima kilo"

	got := ExtractKeywords(text)
	assert.Len(t, got, MaxKeywords)
	assert.Equal(t, []string{"lima", "kilo", "alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}, got)
}

func TestExtractKeywords_Unicode(t *testing.T) {
	assert.Equal(t, []string{"café", "über"}, ExtractKeywords("Café, café! über"))
}

func TestCleanTags(t *testing.T) {
	got := CleanTags([]string{"Machine Learning", "machine learning", "AI", "go!", "data-science", "#research", "notes", "extra", "more"})
	assert.Equal(t, []string{"machine-learning", "data-science", "research", "notes", "extra"}, got)
	assert.Empty(t, CleanTags(nil))
}

func TestSuggestTags(t *testing.T) {
	got := SuggestTags("Quarterly planning meeting about planning the roadmap", "q3-roadmap.md")
	assert.Equal(t, []string{"planning", "quarterly", "meeting", "roadmap"}, got)
	assert.LessOrEqual(t, len(SuggestTags(strings.Repeat("word ", 3)+"lots of different terms here today", "")), MaxSuggestedTags)
}
