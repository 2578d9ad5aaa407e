// Package irobserv carries the observability pieces that sit alongside
// the core substrate without gating its correctness: phase timings for
// builder and collector operations, and a small diagnostic bag for
// reporting sanity-check failures.
package irobserv

import (
	"fmt"
	"time"
)

// Phase records one named span's start time, duration, and an optional
// trailing note (e.g. a per-class free-count summary for a GC phase).
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer accumulates a sequence of phases. Nil *Timer is valid everywhere
// it is used — Begin/End are no-ops on a nil receiver, so callers can
// thread an optional timer through without an extra nil check at every
// call site.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns its index for a matching End call.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport is the serializable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{
			Name:       p.Name,
			DurationMS: millis(p.Dur),
			Note:       p.Note,
		}
	}
	report.TotalMS = millis(total)
	return report
}

func (t *Timer) Summary() string {
	r := t.Report()
	out := "timings:\n"
	for _, p := range r.Phases {
		out += fmt.Sprintf("  %-24s %8.3f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out += "  // " + p.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-24s %8.3f ms\n", "total", r.TotalMS)
	return out
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
