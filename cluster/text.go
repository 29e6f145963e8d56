// Package cluster groups repositories by embedding similarity of their
// descriptive text.
package cluster

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// readmeWordCap bounds embedding cost and keeps code noise from dominating
// the semantic signal.
const readmeWordCap = 512

var (
	fencedCodeRe = regexp.MustCompile("```[\\s\\S]*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]*`")
	urlRe        = regexp.MustCompile(`https?://[^\s)]+`)
	markdownRe   = regexp.MustCompile(`[#*_\-\[\](){}]`)
)

// preprocessReadme strips fenced and inline code, URLs and markdown
// punctuation, collapses whitespace and truncates to the first 512 words.
func preprocessReadme(content string) string {
	if content == "" {
		return ""
	}

	content = fencedCodeRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "")
	content = urlRe.ReplaceAllString(content, "")
	content = markdownRe.ReplaceAllString(content, " ")

	words := strings.Fields(content)
	if len(words) > readmeWordCap {
		words = words[:readmeWordCap]
	}
	return strings.Join(words, " ")
}

// extractTextFeatures concatenates name, description, topics, a preprocessed
// README excerpt and a language phrase into one feature string.
func extractTextFeatures(repo *schema.Repository) string {
	features := make([]string, 0, 5)

	if repo.Name != "" {
		name := strings.ReplaceAll(repo.Name, "-", " ")
		name = strings.ReplaceAll(name, "_", " ")
		features = append(features, name)
	}
	if repo.Description != "" {
		features = append(features, repo.Description)
	}
	if len(repo.Topics) > 0 {
		features = append(features, strings.Join(repo.Topics, " "))
	}
	if readme := preprocessReadme(repo.ReadmeContent); readme != "" {
		features = append(features, readme)
	}
	if repo.Language != "" {
		features = append(features, fmt.Sprintf("programming language %s", repo.Language))
	}

	return strings.Join(features, " ")
}

// titleTopic converts a dash-separated topic tag into a display title, e.g.
// "computer-vision" becomes "Computer Vision".
func titleTopic(topic string) string {
	words := strings.Fields(strings.ReplaceAll(topic, "-", " "))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
