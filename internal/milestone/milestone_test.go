package milestone_test

import (
	"testing"

	"github.com/omochice/roomtalk/internal/milestone"
)

func TestDetect_DefaultThresholds(t *testing.T) {
	tests := []struct {
		count int
		want  bool
	}{
		{0, false},
		{9, false},
		{10, true},
		{11, false},
		{25, true},
		{49, false},
		{50, true},
		{99, false},
		{100, true},
		{101, false},
		{-10, false},
	}

	for _, tt := range tests {
		if got := milestone.Detect(tt.count); got != tt.want {
			t.Errorf("Detect(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestDetect_CustomThresholds(t *testing.T) {
	if !milestone.Detect(3, 3, 7) {
		t.Error("Detect(3, 3, 7) = false, want true")
	}
	if milestone.Detect(10, 3, 7) {
		t.Error("Detect(10, 3, 7) = true, want false: custom set replaces defaults")
	}
}

func TestDetect_SequentialCountsFireOncePerThreshold(t *testing.T) {
	hits := map[int]int{}
	for count := 1; count <= 150; count++ {
		if milestone.Detect(count) {
			hits[count]++
		}
	}

	if len(hits) != len(milestone.DefaultThresholds) {
		t.Fatalf("hits = %v, want one per default threshold", hits)
	}
	for _, th := range milestone.DefaultThresholds {
		if hits[th] != 1 {
			t.Errorf("threshold %d fired %d times, want 1", th, hits[th])
		}
	}
}
