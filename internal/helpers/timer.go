package helpers

import (
	"fmt"
	"time"
)

// A nil timer does nothing, so code being timed doesn't need to check
// whether timing was asked for
type Timer struct {
	data []timerData
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

type TimerPhase struct {
	Name     string
	Depth    int
	Duration time.Duration
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name: name,
			time: time.Now(),
		})
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name:  name,
			time:  time.Now(),
			isEnd: true,
		})
	}
}

// Returns one entry per "Begin" call in the order the calls happened. Every
// "Begin" must have been matched by an "End" with the same name.
func (t *Timer) Phases() []TimerPhase {
	if t == nil {
		return nil
	}

	type pair struct {
		timerData
		index int
	}

	var phases []TimerPhase
	var stack []pair

	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, pair{timerData: item, index: len(phases)})
			phases = append(phases, TimerPhase{Name: item.name, Depth: len(stack) - 1})
			continue
		}

		last := len(stack) - 1
		if last < 0 || stack[last].name != item.name {
			panic(fmt.Sprintf("Internal error: timer phase %q ended out of order", item.name))
		}
		top := stack[last]
		stack = stack[:last]
		phases[top.index].Duration = item.time.Sub(top.time)
	}

	if len(stack) != 0 {
		panic(fmt.Sprintf("Internal error: timer phase %q never ended", stack[len(stack)-1].name))
	}
	return phases
}
