package stats

import "testing"

func TestSummarize(t *testing.T) {
	d := Summarize([]float64{0.5, 0.1, 0.9, 0.3})
	if d.Count != 4 {
		t.Errorf("count = %d", d.Count)
	}
	if d.Mean != 0.45 {
		t.Errorf("mean = %v, want 0.45", d.Mean)
	}
	if d.Median != 0.4 {
		t.Errorf("median = %v, want 0.4", d.Median)
	}
	if d.Max != 0.9 {
		t.Errorf("max = %v", d.Max)
	}
	if d.P90 != 0.78 {
		t.Errorf("p90 = %v, want 0.78", d.P90)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if d := Summarize(nil); d != (Distribution{}) {
		t.Errorf("empty = %+v", d)
	}
}

func TestQuantileDoesNotSortInput(t *testing.T) {
	in := []float64{3, 1, 2}
	if q := Quantile(in, 0.5); q != 2 {
		t.Errorf("median = %v", q)
	}
	if in[0] != 3 {
		t.Error("input was modified")
	}
}
