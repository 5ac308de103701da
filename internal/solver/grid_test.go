package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyOutOfPlaceLeavesOriginalUnchanged(t *testing.T) {
	g := NewGrid(3, 3)
	g.Set(1, 1, 5)
	m := NewMove([]int{9}, []int{0}, []int{0})
	nw := ApplyOutOfPlace(g, m)

	require.Equal(t, EMPTY, g.At(0, 0))
	require.Equal(t, 9, nw.At(0, 0))
	require.Equal(t, 5, g.At(1, 1))
	require.Equal(t, 5, nw.At(1, 1))
}

func TestIdempotenceOfEmptyMove(t *testing.T) {
	g := NewGrid(4, 2)
	g.Set(2, 1, 7)
	empty := NewMove(nil, nil, nil)
	nw := ApplyOutOfPlace(g, empty)
	require.True(t, g.Equal(nw))
}

func TestCellsTouched(t *testing.T) {
	m := NewMove([]int{1, 2}, []int{0, 3}, []int{0, 1})
	cells := CellsTouched(m)
	require.Equal(t, []Cell{{Row: 0, Col: 0}, {Row: 3, Col: 1}}, cells)
}
