package progress

import "testing"

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  Progress
	}{
		{"no tasks", nil, Progress{Percent: 0, CompletedCount: 0, Total: 0}},
		{"none done", []bool{false, false}, Progress{Percent: 0, CompletedCount: 0, Total: 2}},
		{"one of three rounds down", []bool{true, false, false}, Progress{Percent: 33, CompletedCount: 1, Total: 3}},
		{"two of three rounds up", []bool{true, true, false}, Progress{Percent: 67, CompletedCount: 2, Total: 3}},
		{"half rounds up", []bool{true, false, false, false, false, false, false, false}, Progress{Percent: 13, CompletedCount: 1, Total: 8}},
		{"all four done", []bool{true, true, true, true}, Progress{Percent: 100, CompletedCount: 4, Total: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.flags)
			if got != tt.want {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStageCompleted(t *testing.T) {
	if Compute(nil).StageCompleted() {
		t.Error("empty stage must not count as completed")
	}
	if Compute([]bool{true, false}).StageCompleted() {
		t.Error("half-done stage must not count as completed")
	}
	if !Compute([]bool{true, true}).StageCompleted() {
		t.Error("fully done stage must count as completed")
	}
}

func TestCompute_MonotonicAsTasksComplete(t *testing.T) {
	for total := 1; total <= 30; total++ {
		flags := make([]bool, total)
		prev := Compute(flags)
		if prev.Percent != 0 {
			t.Fatalf("total=%d: starting percent = %d", total, prev.Percent)
		}
		for i := range flags {
			flags[i] = true
			cur := Compute(flags)
			if cur.Percent < prev.Percent {
				t.Fatalf("total=%d: percent dropped from %d to %d", total, prev.Percent, cur.Percent)
			}
			if cur.CompletedCount != prev.CompletedCount+1 {
				t.Fatalf("total=%d: completed count %d -> %d", total, prev.CompletedCount, cur.CompletedCount)
			}
			if cur.Percent == 100 && i != total-1 {
				t.Fatalf("total=%d: reached 100%% with %d open", total, cur.Remaining())
			}
			prev = cur
		}
		if prev.Percent != 100 {
			t.Fatalf("total=%d: final percent = %d", total, prev.Percent)
		}
	}
}

func TestCombine(t *testing.T) {
	got := Combine(
		Compute([]bool{true, true}),
		Compute([]bool{true, false, false}),
		Compute(nil),
	)
	want := Progress{Percent: 60, CompletedCount: 3, Total: 5}
	if got != want {
		t.Errorf("Combine() = %+v, want %+v", got, want)
	}
	if got.Remaining() != 2 {
		t.Errorf("Remaining() = %d, want 2", got.Remaining())
	}
}
