package profiler

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProfilerOrderAndStats(t *testing.T) {
	p := NewProfiler()

	p.Record(PhaseTraining, 2*time.Second, 1000)
	p.Record(PhaseEvaluation, 500*time.Millisecond, 50)
	p.Record(PhaseTraining, 4*time.Second, 1000)

	all := p.GetAllStats()
	if len(all) != 2 {
		t.Fatalf("Expected 2 phases, got %d", len(all))
	}
	if all[0].Phase != PhaseTraining || all[1].Phase != PhaseEvaluation {
		t.Errorf("Phases out of start order: %s, %s", all[0].Phase, all[1].Phase)
	}

	s := all[0]
	if s.Runs != 2 || s.Items != 2000 {
		t.Errorf("Expected 2 runs / 2000 items, got %d / %d", s.Runs, s.Items)
	}
	if s.Total != 6*time.Second || s.Average != 3*time.Second {
		t.Errorf("Unexpected total/average: %v / %v", s.Total, s.Average)
	}
	if s.Min != 2*time.Second || s.Max != 4*time.Second {
		t.Errorf("Unexpected min/max: %v / %v", s.Min, s.Max)
	}
	if got := s.PerSecond(); got < 333 || got > 334 {
		t.Errorf("Expected ~333 items/s, got %f", got)
	}

	if p.Total() != 6500*time.Millisecond {
		t.Errorf("Expected total 6.5s, got %v", p.Total())
	}
}

func TestTimer(t *testing.T) {
	p := NewProfiler()

	timer := p.Start(PhaseGroundTruth)
	d := timer.Stop(3)
	if d < 0 {
		t.Errorf("Negative duration %v", d)
	}

	s := p.GetStats(PhaseGroundTruth)
	if s.Runs != 1 || s.Items != 3 {
		t.Errorf("Expected 1 run / 3 items, got %d / %d", s.Runs, s.Items)
	}
}

func TestEmptyStats(t *testing.T) {
	p := NewProfiler()

	s := p.GetStats("nothing")
	if s.Runs != 0 || s.PerSecond() != 0 {
		t.Errorf("Expected empty stats, got %+v", s)
	}

	var buf bytes.Buffer
	p.Report(&buf)
	if !strings.Contains(buf.String(), "No timing data") {
		t.Errorf("Unexpected empty report: %q", buf.String())
	}
}

func TestReport(t *testing.T) {
	p := NewProfiler()
	p.Record(PhaseTraining, 1500*time.Millisecond, 10)
	p.Start(PhaseReport) // started but never stopped

	var buf bytes.Buffer
	p.Report(&buf)
	out := buf.String()

	if !strings.Contains(out, "training") || !strings.Contains(out, "1.500s") {
		t.Errorf("Report missing training row:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, PhaseReport) {
			t.Errorf("Unstopped phase should not be listed: %q", line)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5μs"},
		{2500 * time.Microsecond, "2.50ms"},
		{2 * time.Second, "2.000s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
