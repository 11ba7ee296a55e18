package maze

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestNewMaze_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{4, 11}, {11, 4}, {10, 10}, {3, 11}, {11, 3}} {
		_, err := NewMaze(dims[0], dims[1], 42)
		assert.Error(t, err, "dimensions %v must be rejected", dims)
	}
}

func TestNewMaze_StartAndGoal(t *testing.T) {
	m, err := NewMaze(11, 11, 42)
	require.NoError(t, err)

	assert.Equal(t, Cell{Row: 1, Col: 1}, m.StartPos)
	assert.Equal(t, Cell{Row: 9, Col: 9}, m.GoalPos)
	assert.Equal(t, CellStart, m.CellTypeAt(1, 1))
	assert.Equal(t, CellGoal, m.CellTypeAt(9, 9))
	assert.True(t, m.IsWalkable(m.StartPos.Row, m.StartPos.Col))
	assert.True(t, m.IsWalkable(m.GoalPos.Row, m.GoalPos.Col))
}

func TestNewMaze_SeedRecorded(t *testing.T) {
	m, err := NewMaze(11, 11, 0)
	require.NoError(t, err)
	assert.NotZero(t, m.Seed, "a drawn seed must be recorded for later reconstruction")

	// the recorded seed reproduces the exact maze
	rebuilt, err := NewMaze(11, 11, m.Seed)
	require.NoError(t, err)
	assert.Equal(t, m.String(), rebuilt.String())
}

func TestNewMaze_Deterministic(t *testing.T) {
	first, err := NewMaze(21, 15, 1234)
	require.NoError(t, err)
	second, err := NewMaze(21, 15, 1234)
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())

	other, err := NewMaze(21, 15, 4321)
	require.NoError(t, err)
	assert.NotEqual(t, first.String(), other.String())
}

// every walkable cell must be reachable from the start by walking through
// walkable four-neighbors
func TestNewMaze_AllPathCellsConnected(t *testing.T) {
	for _, seed := range []int64{1, 42, 1337} {
		m, err := NewMaze(17, 13, seed)
		require.NoError(t, err)

		visited := make(map[Cell]bool)
		queue := []Cell{m.StartPos}
		visited[m.StartPos] = true
		for len(queue) > 0 {
			cell := queue[0]
			queue = queue[1:]
			for _, next := range []Cell{
				{Row: cell.Row - 1, Col: cell.Col},
				{Row: cell.Row + 1, Col: cell.Col},
				{Row: cell.Row, Col: cell.Col - 1},
				{Row: cell.Row, Col: cell.Col + 1},
			} {
				if m.IsWalkable(next.Row, next.Col) && !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		for r := 0; r < m.Height; r++ {
			for c := 0; c < m.Width; c++ {
				if m.IsWalkable(r, c) {
					assert.True(t, visited[Cell{Row: r, Col: c}],
						"walkable cell (%d, %d) unreachable from start, seed %d:\n%s", r, c, seed, m)
				}
			}
		}
	}
}

func TestMaze_IsWalkable_OutOfBounds(t *testing.T) {
	m, err := NewMaze(11, 11, 42)
	require.NoError(t, err)
	assert.False(t, m.IsWalkable(-1, 5))
	assert.False(t, m.IsWalkable(5, -1))
	assert.False(t, m.IsWalkable(11, 5))
	assert.False(t, m.IsWalkable(5, 11))
	assert.Equal(t, CellWall, m.CellTypeAt(-1, -1))
}

func TestMaze_CastRay_HitsWall(t *testing.T) {
	m, err := NewMaze(11, 11, 42)
	require.NoError(t, err)

	// a ray cast straight up from the start cell center must stop at the
	// outer wall one cell away
	x := float64(m.StartPos.Col) + 0.5
	y := float64(m.StartPos.Row) + 0.5
	_, _, dist := m.CastRay(x, y, -math.Pi/2, 8.0)
	assert.True(t, dist < 8.0, "the ray must stop before the maximal distance")
	assert.InDelta(t, 0.5, dist, rayStepSize+1e-9)
}

func TestMaze_CastRay_MaxDistance(t *testing.T) {
	m, err := NewMaze(11, 11, 42)
	require.NoError(t, err)

	// a very short range never reaches a wall from a cell center
	x := float64(m.StartPos.Col) + 0.5
	y := float64(m.StartPos.Row) + 0.5
	endX, _, dist := m.CastRay(x, y, 0, 0.3)
	assert.Equal(t, 0.3, dist)
	assert.InDelta(t, x+0.3, endX, 1e-9)
}

func TestMaze_String(t *testing.T) {
	m, err := NewMaze(11, 11, 42)
	require.NoError(t, err)
	rendered := m.String()
	assert.Contains(t, rendered, " S")
	assert.Contains(t, rendered, " G")
	assert.Contains(t, rendered, "##")
}
