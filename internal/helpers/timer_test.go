package helpers

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/test"
)

func TestTimerPhases(t *testing.T) {
	timer := &Timer{}
	timer.Begin("Transform")
	timer.Begin("Parse")
	timer.End("Parse")
	timer.Begin("Print")
	timer.End("Print")
	timer.End("Transform")

	var names []string
	for _, phase := range timer.Phases() {
		names = append(names, phase.Name)
		if phase.Duration < 0 {
			t.Fatalf("Negative duration for %q", phase.Name)
		}
	}
	test.AssertDeepEqual(t, names, []string{"Transform", "Parse", "Print"})
	test.AssertEqual(t, timer.Phases()[1].Depth, 1)
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.Begin("Parse")
	timer.End("Parse")
	test.AssertEqual(t, len(timer.Phases()), 0)
}

func TestTimerMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Expected a panic")
		}
	}()
	timer := &Timer{}
	timer.Begin("Parse")
	timer.End("Print")
	timer.Phases()
}
