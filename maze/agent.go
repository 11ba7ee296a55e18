package maze

import (
	"math"
	"math/rand"

	"github.com/yaricom/goNEATMaze/neat"
)

// the motor physics factors per simulation tick
const (
	// the maximal heading change per tick at dt = 1
	turnRateFactor = math.Pi / 2
	// the velocity gained by a full accelerate signal, as a share of max speed
	accelerationFactor = 0.2
	// the velocity lost by a full brake signal, as a share of max speed
	brakeFactor = 0.4
	// the multiplicative friction applied to the velocity every tick
	frictionFactor = 0.05
	// the collision radius of the agent body, strictly below half a cell
	agentRadius = 0.3
)

// Agent is the sensor-equipped body driven through the maze by a network
// phenotype. It holds a continuous pose and accumulates the termination state
// of one evaluation; agents have no identity beyond a single run.
type Agent struct {
	// X and Y the continuous position in maze coordinates, cell centers at +0.5
	X float64
	Y float64
	// Angle the heading in radians
	Angle float64
	// Velocity the scalar speed in cells per tick
	Velocity float64
	// Radius the collision radius of the body
	Radius float64

	// StepsTaken the number of simulation ticks consumed so far
	StepsTaken int
	// Collided set when the last step ran the agent into a wall
	Collided bool
	// CollidedEver set when any step of the run collided
	CollidedEver bool
	// ReachedGoal set once the agent's cell equals the goal cell
	ReachedGoal bool
	// MinDistToGoal the smallest distance to the goal center seen so far
	MinDistToGoal float64

	maxSpeed           float64
	numRangefinders    int
	rangefinderAngles  []float64
	rangefinderMaxDist float64
	numRadarSlices     int
	radarSliceAngle    float64
}

// NewAgent Creates an agent at the center of the maze start cell with a
// random initial heading drawn from the provided generator.
func NewAgent(m *Maze, opts *neat.Options, rng *rand.Rand) *Agent {
	a := &Agent{
		X:                  float64(m.StartPos.Col) + 0.5,
		Y:                  float64(m.StartPos.Row) + 0.5,
		Angle:              rng.Float64() * 2 * math.Pi,
		Radius:             agentRadius,
		MinDistToGoal:      math.Inf(1),
		maxSpeed:           opts.AgentMaxSpeed,
		numRangefinders:    opts.NumRangefinders,
		rangefinderMaxDist: opts.RangefinderMaxDist,
		numRadarSlices:     opts.NumRadarSlices,
		radarSliceAngle:    2 * math.Pi / float64(opts.NumRadarSlices),
	}
	a.rangefinderAngles = make([]float64, a.numRangefinders)
	for i := range a.rangefinderAngles {
		a.rangefinderAngles[i] = float64(i) * 2 * math.Pi / float64(a.numRangefinders)
	}
	return a
}

// SensorReadings Reads the full sensor array against the maze in the fixed
// order the network expects: the normalized rangefinder distances, the
// one-hot goal radar slices, the heading cosine and sine, and the velocity
// normalized by the maximal speed.
func (a *Agent) SensorReadings(m *Maze) []float64 {
	readings := make([]float64, 0, a.numRangefinders+a.numRadarSlices+3)

	for _, offset := range a.rangefinderAngles {
		_, _, dist := m.CastRay(a.X, a.Y, a.Angle+offset, a.rangefinderMaxDist)
		readings = append(readings, dist/a.rangefinderMaxDist)
	}

	readings = append(readings, a.radarReadings(m)...)
	readings = append(readings, math.Cos(a.Angle), math.Sin(a.Angle))
	readings = append(readings, a.Velocity/a.maxSpeed)
	return readings
}

// radarReadings Returns the one-hot indicator of the angular sector, relative
// to the heading, the goal center falls into.
func (a *Agent) radarReadings(m *Maze) []float64 {
	slices := make([]float64, a.numRadarSlices)

	goalX := float64(m.GoalPos.Col) + 0.5
	goalY := float64(m.GoalPos.Row) + 0.5
	angleToGoal := math.Atan2(goalY-a.Y, goalX-a.X)
	relative := math.Mod(angleToGoal-a.Angle+2*math.Pi, 2*math.Pi)

	sector := int(relative / a.radarSliceAngle)
	if sector >= a.numRadarSlices {
		sector = a.numRadarSlices - 1
	}
	slices[sector] = 1.0
	return slices
}

// Update Integrates one motor command into a new pose over the time step dt.
// The four command components are the turn-left, turn-right, accelerate and
// brake signals, each expected in [0, 1] with 0.5 neutral; a malformed
// command counts as all neutral. A step into a non-walkable cell zeroes the
// velocity and raises the collision flag instead of moving.
func (a *Agent) Update(m *Maze, outputs []float64, dt float64) {
	if len(outputs) != neat.NumMotorOutputs {
		outputs = []float64{0.5, 0.5, 0.5, 0.5}
	}
	turnLeft, turnRight := outputs[0], outputs[1]
	accelerate, brake := outputs[2], outputs[3]

	// signals below the 0.5 threshold are inert; above it they scale linearly
	turnStrength := math.Max(0, turnRight-0.5)*2 - math.Max(0, turnLeft-0.5)*2
	a.Angle = math.Mod(a.Angle+turnStrength*turnRateFactor*dt+2*math.Pi, 2*math.Pi)

	a.Velocity += math.Max(0, accelerate-0.5) * 2 * accelerationFactor * a.maxSpeed * dt
	a.Velocity -= math.Max(0, brake-0.5) * 2 * brakeFactor * a.maxSpeed * dt
	a.Velocity *= 1.0 - frictionFactor*dt
	a.Velocity = math.Max(0, math.Min(a.maxSpeed, a.Velocity))

	newX := a.X + math.Cos(a.Angle)*a.Velocity*dt
	newY := a.Y + math.Sin(a.Angle)*a.Velocity*dt

	a.Collided = false
	if !m.IsWalkable(int(newY), int(newX)) {
		a.Velocity = 0
		a.Collided = true
		a.CollidedEver = true
	} else {
		a.X = newX
		a.Y = newY
	}

	goalX := float64(m.GoalPos.Col) + 0.5
	goalY := float64(m.GoalPos.Row) + 0.5
	if dist := math.Hypot(a.X-goalX, a.Y-goalY); dist < a.MinDistToGoal {
		a.MinDistToGoal = dist
	}
	if int(a.Y) == m.GoalPos.Row && int(a.X) == m.GoalPos.Col {
		a.ReachedGoal = true
	}
}

// CellPosition Returns the integer grid cell the agent currently occupies
func (a *Agent) CellPosition() Cell {
	return Cell{Row: int(a.Y), Col: int(a.X)}
}

// NormalizedVelocity Returns the velocity as a share of the maximal speed
func (a *Agent) NormalizedVelocity() float64 {
	return a.Velocity / a.maxSpeed
}
