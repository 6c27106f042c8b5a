// Package recommend implements the recommendation pipeline: prompt
// intent extraction, candidate filtering, embedding-based similarity
// ranking with a keyword fallback, and reason text handling.
package recommend

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed tokens.yaml
var tokensYAML []byte

type tokenSets struct {
	Stopwords          []string `yaml:"stopwords"`
	ExcludeCategories  []string `yaml:"exclude_categories"`
	ExcludeTitles      []string `yaml:"exclude_titles"`
	GenreTriggers      []string `yaml:"genre_triggers"`
	GenreTopicTriggers []string `yaml:"genre_topic_triggers"`
	GenreCategories    []string `yaml:"genre_categories"`
	ComicTerms         []string `yaml:"comic_terms"`
	ComicCategory      string   `yaml:"comic_category"`
	RequestWords       []string `yaml:"request_words"`
	TopicSuffix        string   `yaml:"topic_suffix"`
}

var tokens tokenSets

var stopwordSet map[string]struct{}

func init() {
	if err := yaml.Unmarshal(tokensYAML, &tokens); err != nil {
		panic(fmt.Sprintf("recommend: invalid embedded token sets: %v", err))
	}
	stopwordSet = make(map[string]struct{}, len(tokens.Stopwords))
	for _, w := range tokens.Stopwords {
		stopwordSet[w] = struct{}{}
	}
}

func isStopword(word string) bool {
	_, ok := stopwordSet[word]
	return ok
}
