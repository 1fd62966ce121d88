package util

import (
	"sort"
	"time"
)

// FrameStats keeps the durations of the most recent frames.
type FrameStats struct {
	samples []time.Duration
	next    int
	full    bool
}

// NewFrameStats creates stats over a window of size frames.
func NewFrameStats(size int) *FrameStats {
	if size < 1 {
		size = 1
	}
	return &FrameStats{samples: make([]time.Duration, size)}
}

// Add records one frame duration, replacing the oldest once the window is full.
func (s *FrameStats) Add(d time.Duration) {
	s.samples[s.next] = d
	s.next++
	if s.next == len(s.samples) {
		s.next = 0
		s.full = true
	}
}

// Len returns the number of frames in the window.
func (s *FrameStats) Len() int {
	if s.full {
		return len(s.samples)
	}
	return s.next
}

func (s *FrameStats) window() []time.Duration {
	return s.samples[:s.Len()]
}

// Average returns the mean frame duration, 0 with no frames.
func (s *FrameStats) Average() time.Duration {
	w := s.window()
	if len(w) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range w {
		sum += d
	}
	return sum / time.Duration(len(w))
}

// Median returns the median frame duration, 0 with no frames.
func (s *FrameStats) Median() time.Duration {
	sorted := append([]time.Duration(nil), s.window()...)
	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	middle := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[middle-1] + sorted[middle]) / 2
	}
	return sorted[middle]
}

// FPS returns the frame rate implied by the average duration.
func (s *FrameStats) FPS() float64 {
	avg := s.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}
