package keywords

import (
	"regexp"
	"sort"
	"strings"
)

const maxKeywords = 5

// minTokenLen отсекает слишком короткие токены: слова из трёх и менее
// символов не несут смысла для подбора хэштегов.
const minTokenLen = 4

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},
}

// relevanceVocabulary — словарь тем ИИ для фильтрации источников,
// простое вхождение подстроки без какого-либо NLP.
var relevanceVocabulary = []string{
	"ai", "artificial intelligence", "machine learning", "ml", "deep learning",
	"neural network", "llm", "chatgpt", "gpt", "claude", "openai", "anthropic",
	"transformer", "nlp", "computer vision", "generative", "model", "training",
}

// Extract возвращает до пяти ключевых слов текста по убыванию частоты.
// При равной частоте сохраняется порядок первого появления.
func Extract(text string) []string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(text), " ")

	freq := make(map[string]int)
	order := make([]string, 0)
	for _, token := range strings.Fields(cleaned) {
		if len(token) < minTokenLen {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		if _, seen := freq[token]; !seen {
			order = append(order, token)
		}
		freq[token]++
	}

	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

// Relevant сообщает, относится ли текст к тематике ИИ.
func Relevant(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range relevanceVocabulary {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
