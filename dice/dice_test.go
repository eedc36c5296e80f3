package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollDie_StaysInRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := RollDie(6)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
	}
}

func TestRoll_SkipsKeptDice(t *testing.T) {
	s := NewSet(5, 6)
	s.Roll()

	s.Toggle(0)
	s.Toggle(2)
	kept0, kept2 := s.Values[0], s.Values[2]

	for i := 0; i < 50; i++ {
		s.Roll()
		assert.Equal(t, kept0, s.Values[0])
		assert.Equal(t, kept2, s.Values[2])
	}
}

func TestRollAll_ClearsKeptFlags(t *testing.T) {
	s := NewSet(3, 6)
	s.Roll()
	s.Toggle(1)

	s.RollAll()
	for _, k := range s.Kept {
		assert.False(t, k)
	}
}

func TestKeepByValue_OneDieAtATime(t *testing.T) {
	s := NewSet(3, 6)
	s.Values = []int{4, 4, 2}

	assert.True(t, s.KeepByValue(4))
	assert.True(t, s.KeepByValue(4))
	assert.False(t, s.KeepByValue(4), "only two fours exist")

	assert.True(t, s.UnkeepByValue(4))
	assert.False(t, s.UnkeepByValue(2), "the two was never kept")
}

func TestTotalAndAllKept(t *testing.T) {
	s := NewSet(3, 6)
	s.Values = []int{1, 5, 3}
	assert.Equal(t, 9, s.Total())

	assert.False(t, s.AllKept())
	for i := range s.Kept {
		s.Toggle(i)
	}
	assert.True(t, s.AllKept())

	s.ClearKept()
	assert.False(t, s.AllKept())
}

func TestToggle_IgnoresOutOfRange(t *testing.T) {
	s := NewSet(2, 6)
	s.Toggle(-1)
	s.Toggle(7)
	assert.False(t, s.Kept[0])
	assert.False(t, s.Kept[1])
}
