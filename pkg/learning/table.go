package learning

import "sort"

// FrequencyTable maps tokens to occurrence counts for one class. The running
// total is kept in step with every addition and always equals the sum of the
// counts.
type FrequencyTable struct {
	counts map[string]int
	total  int
}

// NewFrequencyTable creates an empty table
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Add records one occurrence of token
func (ft *FrequencyTable) Add(token string) {
	ft.addN(token, 1)
}

func (ft *FrequencyTable) addN(token string, n int) {
	if n <= 0 {
		return
	}
	if ft.counts == nil {
		ft.counts = make(map[string]int)
	}
	ft.counts[token] += n
	ft.total += n
}

// Count returns the number of recorded occurrences of token
func (ft *FrequencyTable) Count(token string) int {
	return ft.counts[token]
}

// Total returns the number of recorded occurrences across all tokens
func (ft *FrequencyTable) Total() int {
	return ft.total
}

// Len returns the number of distinct tokens
func (ft *FrequencyTable) Len() int {
	return len(ft.counts)
}

// Frequency returns count/total for token, or 0 when the token is unknown or
// the table is empty.
func (ft *FrequencyTable) Frequency(token string) float64 {
	if ft.total == 0 {
		return 0
	}
	count, ok := ft.counts[token]
	if !ok {
		return 0
	}
	return float64(count) / float64(ft.total)
}

// Tokens returns the distinct tokens in sorted order
func (ft *FrequencyTable) Tokens() []string {
	tokens := make([]string, 0, len(ft.counts))
	for token := range ft.counts {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

func (ft *FrequencyTable) clone() *FrequencyTable {
	counts := make(map[string]int, len(ft.counts))
	for token, count := range ft.counts {
		counts[token] = count
	}
	return &FrequencyTable{counts: counts, total: ft.total}
}
