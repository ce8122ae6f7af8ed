package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		dirs []int
		want int
	}{
		{"empty", nil, 0},
		{"single up", []int{1}, 1},
		{"single down", []int{-1}, -1},
		{"trailing downs", []int{1, 1, -1, -1, -1}, -3},
		{"all up", []int{1, 1, 1}, 3},
		{"trailing flat", []int{-1, 0}, 0},
		{"flat then up", []int{0, 1}, 1},
		{"alternating", []int{1, -1, 1, -1}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.dirs))
		})
	}
}

func TestBoolStreak_MatchesTrailingRun(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 500; iter++ {
		flags := make([]bool, 1+rng.Intn(40))
		for i := range flags {
			flags[i] = rng.Intn(2) == 1
		}
		last := flags[len(flags)-1]
		count := 0
		for i := len(flags) - 1; i >= 0 && flags[i] == last; i-- {
			count++
		}
		want := count
		if !last {
			want = -count
		}
		assert.Equal(t, want, BoolStreak(flags), "flags=%v", flags)
	}
	assert.Equal(t, 0, BoolStreak(nil))
}

func TestSign(t *testing.T) {
	assert.Equal(t, 1, Sign(0.1))
	assert.Equal(t, -1, Sign(-3))
	assert.Equal(t, 0, Sign(0))
}
