package hierarchy

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/stretchr/testify/assert"
)

const (
	P = domain.StatePlanned
	I = domain.StateInProgress
	C = domain.StateCompleted
)

func TestAggregate_Table(t *testing.T) {
	cases := []struct {
		name   string
		states []domain.State
		want   domain.State
	}{
		{"empty", nil, P},
		{"single planned", []domain.State{P}, P},
		{"single in progress", []domain.State{I}, I},
		{"single completed", []domain.State{C}, C},
		{"all completed", []domain.State{C, C, C}, C},
		{"completed with one in progress", []domain.State{C, I, C}, I},
		{"planned and in progress", []domain.State{P, I}, I},
		{"planned and completed", []domain.State{P, C}, P},
		{"all planned", []domain.State{P, P}, P},
		{"all three", []domain.State{P, I, C}, I},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Aggregate(tc.states))
		})
	}
}

// TestAggregate_Invariants property-tests the rule over random multisets.
func TestAggregate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		n := rng.Intn(6)
		states := make([]domain.State, n)
		counts := map[domain.State]int{}
		for i := range states {
			states[i] = domain.State(rng.Intn(3))
			counts[states[i]]++
		}

		got := Aggregate(states)
		switch {
		case n > 0 && counts[C] == n:
			assert.Equal(t, C, got, "trial %d: %v", trial, states)
		case counts[I] > 0:
			assert.Equal(t, I, got, "trial %d: %v", trial, states)
		default:
			assert.Equal(t, P, got, "trial %d: %v", trial, states)
		}
	}
}

func TestTaskStates(t *testing.T) {
	tasks := []*domain.Task{{State: C}, {State: P}}
	assert.Equal(t, []domain.State{C, P}, TaskStates(tasks))
	assert.Empty(t, TaskStates(nil))
}
