package learning

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/zpam/sentiment/pkg/tokenizer"
)

// Model is a trained, read-only word frequency classifier. It is safe for
// concurrent use.
type Model struct {
	tokenize tokenizer.Func

	positive *FrequencyTable
	negative *FrequencyTable

	stats       TrainingStats
	lastTrained time.Time
}

func newModel(tokenize tokenizer.Func, positive, negative *FrequencyTable, stats TrainingStats, lastTrained time.Time) *Model {
	if tokenize == nil {
		tokenize = tokenizer.Tokenize
	}
	return &Model{
		tokenize:    tokenize,
		positive:    positive,
		negative:    negative,
		stats:       stats,
		lastTrained: lastTrained,
	}
}

// Scores sums, over the tokens of text, each token's relative frequency within
// the positive and the negative training vocabulary. Unknown tokens and classes
// without any training words contribute nothing.
func (m *Model) Scores(text string) (positive, negative float64) {
	for _, token := range m.tokenize(text) {
		positive += m.positive.Frequency(token)
		negative += m.negative.Frequency(token)
	}
	return positive, negative
}

// Predict labels text. Ties go to Positive.
func (m *Model) Predict(text string) Label {
	positive, negative := m.Scores(text)
	if positive >= negative {
		return Positive
	}
	return Negative
}

// Table returns a copy of the frequency table for label, or nil when label is
// not a recognized class.
func (m *Model) Table(label Label) *FrequencyTable {
	switch label {
	case Positive:
		return m.positive.clone()
	case Negative:
		return m.negative.clone()
	}
	return nil
}

// WordStats contains statistics about a word
type WordStats struct {
	Word          string  `json:"word"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	PositiveFreq  float64 `json:"positive_freq"`
	NegativeFreq  float64 `json:"negative_freq"`
	Positivity    float64 `json:"positivity"`
}

// WordStats returns statistics for a word, or nil if it was never seen
func (m *Model) WordStats(word string) *WordStats {
	tokens := m.tokenize(word)
	if len(tokens) == 0 {
		return nil
	}
	word = tokens[0]

	positiveCount := m.positive.Count(word)
	negativeCount := m.negative.Count(word)
	if positiveCount == 0 && negativeCount == 0 {
		return nil
	}

	positiveFreq := m.positive.Frequency(word)
	negativeFreq := m.negative.Frequency(word)

	// 1 = only seen in positive posts, 0 = only in negative ones
	var positivity float64
	if positiveFreq+negativeFreq > 0 {
		positivity = positiveFreq / (positiveFreq + negativeFreq)
	}

	return &WordStats{
		Word:          word,
		PositiveCount: positiveCount,
		NegativeCount: negativeCount,
		PositiveFreq:  positiveFreq,
		NegativeFreq:  negativeFreq,
		Positivity:    positivity,
	}
}

// TopWords returns the words most indicative of label that occur at least
// minCount times in that class.
func (m *Model) TopWords(label Label, limit, minCount int) []*WordStats {
	var table *FrequencyTable
	switch label {
	case Positive:
		table = m.positive
	case Negative:
		table = m.negative
	default:
		return nil
	}

	var words []*WordStats
	for word, count := range table.counts {
		if count < minCount {
			continue
		}
		if stats := m.WordStats(word); stats != nil {
			words = append(words, stats)
		}
	}

	sort.Slice(words, func(i, j int) bool {
		a, b := words[i], words[j]
		if a.Positivity != b.Positivity {
			if label == Positive {
				return a.Positivity > b.Positivity
			}
			return a.Positivity < b.Positivity
		}
		ca, cb := a.PositiveCount+a.NegativeCount, b.PositiveCount+b.NegativeCount
		if ca != cb {
			return ca > cb
		}
		return a.Word < b.Word
	})

	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}

	return words
}

// ModelInfo contains model information
type ModelInfo struct {
	TrainingStats
	PositiveVocabulary int       `json:"positive_vocabulary"`
	NegativeVocabulary int       `json:"negative_vocabulary"`
	VocabularySize     int       `json:"vocabulary_size"`
	LastTrained        time.Time `json:"last_trained"`
}

// Info returns information about the trained model
func (m *Model) Info() *ModelInfo {
	vocabSize := m.positive.Len()
	for word := range m.negative.counts {
		if _, exists := m.positive.counts[word]; !exists {
			vocabSize++
		}
	}

	return &ModelInfo{
		TrainingStats:      m.stats,
		PositiveVocabulary: m.positive.Len(),
		NegativeVocabulary: m.negative.Len(),
		VocabularySize:     vocabSize,
		LastTrained:        m.lastTrained,
	}
}

// PrintStats prints model statistics and the top words of each class
func (m *Model) PrintStats(w io.Writer, top, minCount int) {
	info := m.Info()

	fmt.Fprintf(w, "🧠 Word Frequency Sentiment Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Positive posts: %d\n", info.PositiveRecords)
	fmt.Fprintf(w, "  Negative posts: %d\n", info.NegativeRecords)
	fmt.Fprintf(w, "  Skipped posts: %d\n", info.SkippedRecords)
	fmt.Fprintf(w, "  Positive words: %d\n", info.PositiveWords)
	fmt.Fprintf(w, "  Negative words: %d\n", info.NegativeWords)
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)

	if !info.LastTrained.IsZero() {
		fmt.Fprintf(w, "  Last trained: %s\n", info.LastTrained.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(w, "\n📈 Top Positive Words:\n")
	printWords(w, m.TopWords(Positive, top, minCount))

	fmt.Fprintf(w, "\n📉 Top Negative Words:\n")
	printWords(w, m.TopWords(Negative, top, minCount))

	fmt.Fprintf(w, "\n")
}

func printWords(w io.Writer, words []*WordStats) {
	if len(words) == 0 {
		fmt.Fprintf(w, "  (none)\n")
		return
	}
	for i, word := range words {
		fmt.Fprintf(w, "  %2d. %-15s (%.3f positivity, %d/%d)\n",
			i+1, truncate(word.Word, 15), word.Positivity, word.PositiveCount, word.NegativeCount)
	}
}

func truncate(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:maxLen-1])) + "…"
}
