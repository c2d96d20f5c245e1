package evaluation

import "github.com/zpam/sentiment/pkg/learning"

// Confusion counts predictions by actual and predicted label
type Confusion map[learning.Label]map[learning.Label]int

func newConfusion() Confusion {
	return make(Confusion)
}

func (c Confusion) add(actual, predicted learning.Label) {
	row, ok := c[actual]
	if !ok {
		row = make(map[learning.Label]int)
		c[actual] = row
	}
	row[predicted]++
}

// Count returns how many posts labeled actual were predicted as predicted
func (c Confusion) Count(actual, predicted learning.Label) int {
	return c[actual][predicted]
}

// Precision is the share of predictions of label that were right
func (c Confusion) Precision(label learning.Label) float64 {
	var predicted int
	for _, row := range c {
		predicted += row[label]
	}
	if predicted == 0 {
		return 0
	}
	return float64(c.Count(label, label)) / float64(predicted)
}

// Recall is the share of posts labeled label that were found
func (c Confusion) Recall(label learning.Label) float64 {
	var actual int
	for _, n := range c[label] {
		actual += n
	}
	if actual == 0 {
		return 0
	}
	return float64(c.Count(label, label)) / float64(actual)
}

func (c Confusion) clone() Confusion {
	out := make(Confusion, len(c))
	for actual, row := range c {
		copied := make(map[learning.Label]int, len(row))
		for predicted, n := range row {
			copied[predicted] = n
		}
		out[actual] = copied
	}
	return out
}
