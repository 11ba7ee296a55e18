// Package maze provides the simulation environment of the experiment: the
// procedurally generated grid maze, the sensor-equipped agent driven by a
// network phenotype, and the fitness evaluator reducing one agent run to a
// scalar score.
package maze

import (
	"math"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// CellType defines the type of one maze grid cell
type CellType byte

const (
	// CellPath the walkable corridor cell
	CellPath CellType = iota
	// CellWall the solid wall cell
	CellWall
	// CellStart the walkable cell the agent starts from
	CellStart
	// CellGoal the walkable cell the agent must reach
	CellGoal
)

// the step the ray casting advances with, in cells
const rayStepSize = 0.1

// Cell is a grid position addressed by row and column
type Cell struct {
	Row int
	Col int
}

// Maze is a rectangular grid of odd dimensions with exactly one start and one
// goal cell, generated by depth-first recursive backtracking. The maze is
// immutable once generated.
type Maze struct {
	// Width the number of columns
	Width int
	// Height the number of rows
	Height int
	// Seed the random seed the maze was generated from, recorded so the
	// exact maze can be reconstructed later
	Seed int64
	// StartPos the start cell
	StartPos Cell
	// GoalPos the goal cell
	GoalPos Cell

	grid [][]CellType
}

// NewMaze Generates a new perfect maze of the given odd dimensions. A zero
// seed requests a random one; the seed actually used is recorded in the
// returned maze.
func NewMaze(width, height int, seed int64) (*Maze, error) {
	if width < 5 || height < 5 || width%2 == 0 || height%2 == 0 {
		return nil, errors.Errorf("maze dimensions must be odd integers >= 5, got: %dx%d", width, height)
	}
	if seed == 0 {
		seed = rand.Int63()
	}
	m := &Maze{
		Width:  width,
		Height: height,
		Seed:   seed,
	}
	m.generate(rand.New(rand.NewSource(seed)))
	return m, nil
}

// generate Carves the corridors with recursive backtracking over the cells at
// odd coordinates, then places and tags the start and goal cells.
func (m *Maze) generate(rng *rand.Rand) {
	m.grid = make([][]CellType, m.Height)
	for r := range m.grid {
		m.grid[r] = make([]CellType, m.Width)
		for c := range m.grid[r] {
			m.grid[r][c] = CellWall
		}
	}

	startRow := 1 + 2*rng.Intn(m.Height/2)
	startCol := 1 + 2*rng.Intn(m.Width/2)
	m.carve(rng, startRow, startCol)

	m.StartPos = Cell{Row: 1, Col: 1}
	m.GoalPos = Cell{Row: m.Height - 2, Col: m.Width - 2}
	m.grid[m.StartPos.Row][m.StartPos.Col] = CellStart
	m.grid[m.GoalPos.Row][m.GoalPos.Col] = CellGoal
}

func (m *Maze) carve(rng *rand.Rand, row, col int) {
	m.grid[row][col] = CellPath

	neighbors := []Cell{
		{Row: row - 2, Col: col},
		{Row: row + 2, Col: col},
		{Row: row, Col: col - 2},
		{Row: row, Col: col + 2},
	}
	rng.Shuffle(len(neighbors), func(i, j int) {
		neighbors[i], neighbors[j] = neighbors[j], neighbors[i]
	})

	for _, next := range neighbors {
		if !m.isValid(next.Row, next.Col) || m.grid[next.Row][next.Col] != CellWall {
			continue
		}
		// knock out the wall between the current cell and the neighbor
		m.grid[row+(next.Row-row)/2][col+(next.Col-col)/2] = CellPath
		m.carve(rng, next.Row, next.Col)
	}
}

func (m *Maze) isValid(row, col int) bool {
	return row >= 0 && row < m.Height && col >= 0 && col < m.Width
}

// IsWalkable Returns true when the cell is inside the grid and not a wall
func (m *Maze) IsWalkable(row, col int) bool {
	return m.isValid(row, col) && m.grid[row][col] != CellWall
}

// CellTypeAt Returns the type of the cell; positions outside the grid count as walls
func (m *Maze) CellTypeAt(row, col int) CellType {
	if !m.isValid(row, col) {
		return CellWall
	}
	return m.grid[row][col]
}

// Diagonal Returns the length of the maze diagonal in cells
func (m *Maze) Diagonal() float64 {
	return math.Hypot(float64(m.Width), float64(m.Height))
}

// CastRay Advances a ray from (x, y) under the given global angle in small
// fixed steps until it hits a wall cell, leaves the maze bounds, or travels
// the maximal distance. Returns the ray end point and the actual distance
// traveled.
func (m *Maze) CastRay(x, y, angle, maxDist float64) (endX, endY, dist float64) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	for dist = 0; dist < maxDist; dist += rayStepSize {
		checkX := x + cos*dist
		checkY := y + sin*dist
		row, col := int(checkY), int(checkX)
		if !m.isValid(row, col) || m.grid[row][col] == CellWall {
			return checkX, checkY, dist
		}
	}
	return x + cos*maxDist, y + sin*maxDist, maxDist
}

// String Renders the maze grid as ASCII art for logs and debugging
func (m *Maze) String() string {
	var sb strings.Builder
	for r := 0; r < m.Height; r++ {
		for c := 0; c < m.Width; c++ {
			switch m.grid[r][c] {
			case CellWall:
				sb.WriteString("##")
			case CellStart:
				sb.WriteString(" S")
			case CellGoal:
				sb.WriteString(" G")
			default:
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
