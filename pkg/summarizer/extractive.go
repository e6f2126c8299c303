package summarizer

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// Sentences shorter or longer than this window are penalized.
	idealSentenceMin = 10
	idealSentenceMax = 30

	minSelectedSentences = 2
	maxSelectedSentences = 5

	positionWeight    = 0.3
	lengthBonusWeight = 0.2
	selectionFraction = 0.3
)

var sentenceBoundary = regexp.MustCompile(`([.!?])\s+`)

// splitSentences splits text into sentences, keeping the terminating
// punctuation with each sentence.
func splitSentences(text string) []string {
	marked := sentenceBoundary.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

type scoredSentence struct {
	index int
	score float64
	words int
}

// ExtractiveSummary produces a summary by selecting the highest-scoring
// sentences from the text. Sentences are scored by position (earlier is
// better), document word frequency, and a bonus for mid-length
// sentences. Selected sentences are emitted in their original order, so
// the summary is always a subset of the input.
func ExtractiveSummary(text string, maxWords int) string {
	text = strings.TrimSpace(text)
	sentences := splitSentences(text)
	if len(sentences) <= 3 {
		return text
	}

	wordFreq := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, `.,;:!?"'()`)
		if len(word) > 3 {
			wordFreq[word]++
		}
	}

	scored := make([]scoredSentence, len(sentences))
	for i, sentence := range sentences {
		sentenceWords := strings.Fields(strings.ToLower(sentence))

		score := float64(len(sentences)-i) / float64(len(sentences)) * positionWeight

		for _, word := range sentenceWords {
			word = strings.Trim(word, `.,;:!?"'()`)
			if freq, ok := wordFreq[word]; ok {
				score += float64(freq)
			}
		}

		if len(sentenceWords) >= idealSentenceMin && len(sentenceWords) <= idealSentenceMax {
			score += lengthBonusWeight
		}

		scored[i] = scoredSentence{index: i, score: score, words: len(sentenceWords)}
	}

	target := int(float64(len(sentences)) * selectionFraction)
	if target < minSelectedSentences {
		target = minSelectedSentences
	}
	if target > maxSelectedSentences {
		target = maxSelectedSentences
	}

	byScore := make([]scoredSentence, len(scored))
	copy(byScore, scored)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].score > byScore[j].score
	})

	// Take top sentences by score, stopping once the word budget is
	// exhausted. At least one sentence is always selected.
	selected := make([]int, 0, target)
	budget := maxWords
	for _, s := range byScore {
		if len(selected) >= target {
			break
		}
		if len(selected) > 0 && (budget <= 0 || s.words > budget) {
			continue
		}
		selected = append(selected, s.index)
		budget -= s.words
	}

	sort.Ints(selected)

	parts := make([]string, len(selected))
	for i, idx := range selected {
		parts[i] = sentences[idx]
	}
	summary := strings.Join(parts, " ")
	if !strings.HasSuffix(summary, ".") && !strings.HasSuffix(summary, "!") &&
		!strings.HasSuffix(summary, "?") {
		summary += "."
	}

	return summary
}
