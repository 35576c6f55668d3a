// Package progress derives completion percentages from task completion flags.
// This is part of the Functional Core - no I/O, only pure functions.
package progress

// Progress is the completion state of a set of tasks.
type Progress struct {
	Percent        int
	CompletedCount int
	Total          int
}

// Compute counts flags and rounds completed/total*100 half-up.
// An empty set is 0%.
func Compute(flags []bool) Progress {
	p := Progress{Total: len(flags)}
	for _, done := range flags {
		if done {
			p.CompletedCount++
		}
	}
	p.Percent = percent(p.CompletedCount, p.Total)
	return p
}

// Combine sums several progress values into one, e.g. stages into a plan.
func Combine(parts ...Progress) Progress {
	var p Progress
	for _, part := range parts {
		p.CompletedCount += part.CompletedCount
		p.Total += part.Total
	}
	p.Percent = percent(p.CompletedCount, p.Total)
	return p
}

// StageCompleted reports whether every task is done and there is at least one.
func (p Progress) StageCompleted() bool {
	return p.Percent == 100 && p.Total > 0
}

// Remaining returns the number of tasks still open.
func (p Progress) Remaining() int {
	return p.Total - p.CompletedCount
}

func percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	// round(completed*100/total) with halves rounded up, in integers
	return (completed*200 + total) / (total * 2)
}
