package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Pipeline phases timed by the run command
const (
	PhaseTraining    = "training"
	PhaseGroundTruth = "ground_truth"
	PhaseEvaluation  = "evaluation"
	PhaseReport      = "report"
)

// Profiler tracks how long each pipeline phase takes. Phases are reported in
// the order they were first started.
type Profiler struct {
	mu     sync.Mutex
	order  []string
	times  map[string][]time.Duration
	counts map[string]int
}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{
		times:  make(map[string][]time.Duration),
		counts: make(map[string]int),
	}
}

// Timer represents one running phase
type Timer struct {
	profiler *Profiler
	phase    string
	start    time.Time
}

// Start begins timing a phase
func (p *Profiler) Start(phase string) *Timer {
	p.mu.Lock()
	p.remember(phase)
	p.mu.Unlock()

	return &Timer{
		profiler: p,
		phase:    phase,
		start:    time.Now(),
	}
}

// Stop records the elapsed time. items is the number of records the phase
// handled and feeds the throughput column.
func (t *Timer) Stop(items int) time.Duration {
	d := time.Since(t.start)
	t.profiler.Record(t.phase, d, items)
	return d
}

// Record adds a measured duration for phase
func (p *Profiler) Record(phase string, d time.Duration, items int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.remember(phase)
	p.times[phase] = append(p.times[phase], d)
	p.counts[phase] += items
}

func (p *Profiler) remember(phase string) {
	if _, ok := p.times[phase]; !ok {
		p.times[phase] = nil
		p.order = append(p.order, phase)
	}
}

// Stats summarizes one phase
type Stats struct {
	Phase   string
	Runs    int
	Items   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// PerSecond returns items handled per second, or 0 when nothing was timed
func (s *Stats) PerSecond() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Items) / s.Total.Seconds()
}

// GetStats returns timing statistics for a phase
func (p *Profiler) GetStats(phase string) *Stats {
	p.mu.Lock()
	times := append([]time.Duration(nil), p.times[phase]...)
	items := p.counts[phase]
	p.mu.Unlock()

	stats := &Stats{Phase: phase, Runs: len(times), Items: items}
	if len(times) == 0 {
		return stats
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	for _, t := range times {
		stats.Total += t
	}
	stats.Average = stats.Total / time.Duration(len(times))
	stats.Min = times[0]
	stats.Max = times[len(times)-1]

	return stats
}

// GetAllStats returns statistics for every phase in start order
func (p *Profiler) GetAllStats() []*Stats {
	p.mu.Lock()
	phases := append([]string(nil), p.order...)
	p.mu.Unlock()

	stats := make([]*Stats, 0, len(phases))
	for _, phase := range phases {
		stats = append(stats, p.GetStats(phase))
	}
	return stats
}

// Total returns the summed time of all phases
func (p *Profiler) Total() time.Duration {
	var total time.Duration
	for _, s := range p.GetAllStats() {
		total += s.Total
	}
	return total
}

// Report writes a formatted timing table to w
func (p *Profiler) Report(w io.Writer) {
	stats := p.GetAllStats()

	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	fmt.Fprintf(w, "⏱️  Pipeline Profile\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-14s %6s %10s %10s %12s\n", "Phase", "Runs", "Items", "Total", "Items/s")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────\n")

	for _, s := range stats {
		if s.Runs == 0 {
			continue
		}
		fmt.Fprintf(w, "%-14s %6d %10d %10s %12.0f\n",
			truncate(s.Phase, 14),
			s.Runs,
			s.Items,
			formatDuration(s.Total),
			s.PerSecond(),
		)
	}

	fmt.Fprintf(w, "───────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%-14s %6s %10s %10s\n", "total", "", "", formatDuration(p.Total()))
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
