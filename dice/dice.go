// Package dice provides a reusable dice set with keep/lock mechanics
// shared by the dice games.
package dice

import (
	"math/rand"
)

// RollDie rolls a single die with the given number of sides.
func RollDie(sides int) int {
	if sides < 1 {
		sides = 6
	}
	return rand.Intn(sides) + 1
}

// RollDice rolls count dice and returns the values.
func RollDice(count, sides int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = RollDie(sides)
	}
	return out
}

// Set holds a fixed number of dice plus per-die kept flags. Kept dice
// are not re-rolled. The whole struct serializes with the owning game.
type Set struct {
	Values []int  `json:"values"`
	Kept   []bool `json:"kept"`
	Sides  int    `json:"sides"`
}

// NewSet creates a set of count unrolled dice.
func NewSet(count, sides int) *Set {
	return &Set{
		Values: make([]int, count),
		Kept:   make([]bool, count),
		Sides:  sides,
	}
}

// Roll re-rolls every die that is not kept.
func (s *Set) Roll() {
	for i := range s.Values {
		if !s.Kept[i] {
			s.Values[i] = RollDie(s.Sides)
		}
	}
}

// RollAll clears all kept flags and rolls every die.
func (s *Set) RollAll() {
	for i := range s.Kept {
		s.Kept[i] = false
	}
	s.Roll()
}

// Toggle flips the kept flag of the die at index. Out-of-range indexes
// are ignored.
func (s *Set) Toggle(index int) {
	if index < 0 || index >= len(s.Kept) {
		return
	}
	s.Kept[index] = !s.Kept[index]
}

// KeepByValue marks one unkept die showing value as kept. Returns true
// if a die was kept.
func (s *Set) KeepByValue(value int) bool {
	for i, v := range s.Values {
		if v == value && !s.Kept[i] {
			s.Kept[i] = true
			return true
		}
	}
	return false
}

// UnkeepByValue clears the kept flag of one kept die showing value.
func (s *Set) UnkeepByValue(value int) bool {
	for i, v := range s.Values {
		if v == value && s.Kept[i] {
			s.Kept[i] = false
			return true
		}
	}
	return false
}

// ClearKept unmarks every die.
func (s *Set) ClearKept() {
	for i := range s.Kept {
		s.Kept[i] = false
	}
}

// Total sums all dice.
func (s *Set) Total() int {
	total := 0
	for _, v := range s.Values {
		total += v
	}
	return total
}

// AllKept reports whether every die is kept.
func (s *Set) AllKept() bool {
	for _, k := range s.Kept {
		if !k {
			return false
		}
	}
	return len(s.Kept) > 0
}
