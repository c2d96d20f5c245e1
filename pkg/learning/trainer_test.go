package learning

import (
	"reflect"
	"strings"
	"testing"
)

func TestTrainerCountsTokensPerClass(t *testing.T) {
	trainer := NewTrainer()

	if !trainer.Train(Record{Label: Positive, Text: "Loved it, loved it!"}) {
		t.Fatal("positive record rejected")
	}
	if !trainer.Train(Record{Label: Negative, Text: "hated it"}) {
		t.Fatal("negative record rejected")
	}

	if got := trainer.positive.Count("loved"); got != 2 {
		t.Errorf("positive count for 'loved' = %d, expected 2", got)
	}
	if got := trainer.positive.Count("it"); got != 2 {
		t.Errorf("positive count for 'it' = %d, expected 2", got)
	}
	if got := trainer.negative.Count("it"); got != 1 {
		t.Errorf("negative count for 'it' = %d, expected 1", got)
	}

	stats := trainer.Stats()
	if stats.PositiveWords != 4 || stats.NegativeWords != 2 {
		t.Errorf("word totals = %d/%d, expected 4/2", stats.PositiveWords, stats.NegativeWords)
	}
	if stats.PositiveRecords != 1 || stats.NegativeRecords != 1 {
		t.Errorf("record counts = %d/%d, expected 1/1", stats.PositiveRecords, stats.NegativeRecords)
	}
}

func TestTrainerSkipsUnrecognizedLabels(t *testing.T) {
	trainer := NewTrainer()

	for _, label := range []Label{1, 2, 3, 5, -1} {
		if trainer.Train(Record{Label: label, Text: "neutral words here"}) {
			t.Errorf("label %d should be skipped", label)
		}
	}

	stats := trainer.Stats()
	if stats.SkippedRecords != 5 {
		t.Errorf("skipped = %d, expected 5", stats.SkippedRecords)
	}
	if stats.PositiveWords != 0 || stats.NegativeWords != 0 {
		t.Errorf("skipped records changed the tables: %+v", stats)
	}
	if trainer.positive.Len() != 0 || trainer.negative.Len() != 0 {
		t.Error("skipped records added vocabulary")
	}
}

func TestTrainerTotalsMatchTableSums(t *testing.T) {
	trainer := NewTrainer()
	trainer.TrainAll([]Record{
		{Label: Positive, Text: "a b c a"},
		{Label: Negative, Text: "c c d"},
		{Label: Positive, Text: "!!! ..."},
		{Label: Negative, Text: ""},
	})

	for _, table := range []*FrequencyTable{trainer.positive, trainer.negative} {
		var sum int
		for _, token := range table.Tokens() {
			sum += table.Count(token)
		}
		if sum != table.Total() {
			t.Errorf("sum of counts %d != total %d", sum, table.Total())
		}
	}
}

func TestTrainIsAdditiveAcrossCalls(t *testing.T) {
	a := Record{Label: Positive, Text: "sunny day at the beach"}
	b := Record{Label: Positive, Text: "great day"}
	c := Record{Label: Negative, Text: "rainy day again"}

	split := NewTrainer()
	split.TrainAll([]Record{a, b})
	split.TrainAll([]Record{c})

	single := NewTrainer()
	single.TrainAll([]Record{a, b, c})

	reordered := NewTrainer()
	reordered.TrainAll([]Record{c, b, a})

	for name, other := range map[string]*Trainer{"single pass": single, "reordered": reordered} {
		if !reflect.DeepEqual(split.positive, other.positive) || !reflect.DeepEqual(split.negative, other.negative) {
			t.Errorf("split training differs from %s", name)
		}
		if split.Stats() != other.Stats() {
			t.Errorf("split stats %+v differ from %s stats %+v", split.Stats(), name, other.Stats())
		}
	}
}

func TestTrainCountsNeverDecrease(t *testing.T) {
	trainer := NewTrainer()
	posts := []Record{
		{Label: Positive, Text: "good good"},
		{Label: Negative, Text: "bad"},
		{Label: 2, Text: "ignored"},
		{Label: Positive, Text: "good"},
		{Label: Negative, Text: "bad good"},
	}

	var prev TrainingStats
	prevGood := 0
	for _, rec := range posts {
		trainer.Train(rec)
		stats := trainer.Stats()
		if stats.PositiveWords < prev.PositiveWords || stats.NegativeWords < prev.NegativeWords {
			t.Fatalf("totals decreased: %+v -> %+v", prev, stats)
		}
		if good := trainer.positive.Count("good"); good < prevGood {
			t.Fatalf("count for 'good' decreased: %d -> %d", prevGood, good)
		} else {
			prevGood = good
		}
		prev = stats
	}
}

func TestFinalizeIsASnapshot(t *testing.T) {
	trainer := NewTrainer()
	trainer.Train(Record{Label: Positive, Text: "happy"})

	model := trainer.Finalize()
	trainer.Train(Record{Label: Negative, Text: "happy happy happy"})

	if pos, neg := model.Scores("happy"); pos != 1 || neg != 0 {
		t.Errorf("model changed after further training: pos=%v neg=%v", pos, neg)
	}
	if model.Info().NegativeWords != 0 {
		t.Error("model info changed after further training")
	}
}

func TestWithTokenizer(t *testing.T) {
	trainer := NewTrainer(WithTokenizer(strings.Fields))
	trainer.Train(Record{Label: Positive, Text: "Keep, CASE"})

	if trainer.positive.Count("Keep,") != 1 || trainer.positive.Count("CASE") != 1 {
		t.Errorf("custom tokenizer not used: %v", trainer.positive.Tokens())
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		field   string
		want    Label
		valid   bool
		wantErr bool
	}{
		{"0", Negative, true, false},
		{"4", Positive, true, false},
		{" 4 ", Positive, true, false},
		{"2", Label(2), false, false},
		{"four", 0, false, true},
		{"", 0, false, true},
	}

	for _, tt := range tests {
		got, err := ParseLabel(tt.field)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLabel(%q) error = %v, wantErr %v", tt.field, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if got != tt.want || got.Valid() != tt.valid {
			t.Errorf("ParseLabel(%q) = %v (valid=%v), expected %v (valid=%v)", tt.field, got, got.Valid(), tt.want, tt.valid)
		}
	}
}

func TestLabelString(t *testing.T) {
	if Positive.String() != "positive" || Negative.String() != "negative" || Label(7).String() != "label(7)" {
		t.Errorf("unexpected label names: %s %s %s", Positive, Negative, Label(7))
	}
}
