// Package cloth lays out the spring-mass grid and the demo scenes on top of a
// physics.World.
package cloth

import (
	"fmt"

	"clothsim/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// Config describes an N×N grid of small spheres in the XZ plane, linked to
// their eight neighbours.
type Config struct {
	Cells      int
	Spacing    float64
	Origin     mgl64.Vec3 // position of node (0, 0)
	NodeRadius float64
	NodeMass   float64
	KHook      float64
	KDamp      float64

	// FixBoundaryRows pins the first and last row (j == 0 and j == Cells-1).
	FixBoundaryRows bool

	Floor     bool
	FloorY    float64
	FloorSize float64 // half extent of the floor quad
}

func DefaultConfig() Config {
	return Config{
		Cells:           20,
		Spacing:         0.1,
		Origin:          mgl64.Vec3{0, 2.0, 1.0},
		NodeRadius:      0.01,
		NodeMass:        physics.DefaultMass,
		KHook:           physics.DefaultKHook,
		KDamp:           physics.DefaultKDamp,
		FixBoundaryRows: true,
		Floor:           true,
		FloorY:          0,
		FloorSize:       10,
	}
}

func (c Config) Validate() error {
	if c.Cells < 1 {
		return fmt.Errorf("%w: cloth needs at least one cell, got %d", physics.ErrInvalidInput, c.Cells)
	}
	if !(c.Spacing > 0) {
		return fmt.Errorf("%w: cloth spacing must be positive, got %v", physics.ErrInvalidInput, c.Spacing)
	}
	if !(c.NodeRadius > 0) || !(c.NodeMass > 0) {
		return fmt.Errorf("%w: cloth nodes need positive radius and mass", physics.ErrInvalidInput)
	}
	if c.Floor && !(c.FloorSize > 0) {
		return fmt.Errorf("%w: floor size must be positive, got %v", physics.ErrInvalidInput, c.FloorSize)
	}
	return nil
}

// floorOffset keeps the floor just under FloorY so nodes resting on it do not
// start in contact.
const floorOffset = 1e-3

// neighbours are the eight grid offsets a node links to.
var neighbours = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid records the IDs BuildGrid registered.
type Grid struct {
	Cells   int
	Nodes   []physics.BodyID // row-major, index i*Cells + j
	Springs []*physics.Spring
	Floor   physics.BodyID // -1 without a floor
}

// Node returns the body at column i, row j.
func (g *Grid) Node(i, j int) physics.BodyID {
	return g.Nodes[i*g.Cells+j]
}

// BuildGrid registers Cells×Cells spheres in w and links every pair of
// neighbours with one spring at its initial length.
func BuildGrid(w *physics.World, cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := cfg.Cells
	g := &Grid{Cells: n, Nodes: make([]physics.BodyID, 0, n*n), Floor: -1}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pos := cfg.Origin.Add(mgl64.Vec3{float64(i) * cfg.Spacing, 0, float64(j) * cfg.Spacing})
			s, err := physics.NewSphereWithMass(cfg.NodeRadius, pos, cfg.NodeMass)
			if err != nil {
				return nil, fmt.Errorf("node (%d,%d): %w", i, j, err)
			}
			s.Color = physics.Cyan
			id, err := w.RegisterBody(s)
			if err != nil {
				return nil, fmt.Errorf("node (%d,%d): %w", i, j, err)
			}
			g.Nodes = append(g.Nodes, id)

			if cfg.FixBoundaryRows && (j == 0 || j == n-1) {
				if err := w.SetFixed(id, true); err != nil {
					return nil, err
				}
				s.Color = physics.Red
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for _, d := range neighbours {
				x, y := i+d[0], j+d[1]
				if x < 0 || x >= n || y < 0 || y >= n {
					continue
				}
				// each pair once, from the lower index
				if x*n+y <= i*n+j {
					continue
				}
				s, err := w.AddSpring(g.Node(i, j), g.Node(x, y),
					physics.WithStiffness(cfg.KHook), physics.WithDamping(cfg.KDamp))
				if err != nil {
					return nil, err
				}
				g.Springs = append(g.Springs, s)
			}
		}
	}

	if cfg.Floor {
		floor, err := physics.NewPlane(mgl64.Vec3{cfg.Origin[0], cfg.FloorY - floorOffset, cfg.Origin[2]},
			mgl64.Vec3{0, 1, 0}, cfg.FloorSize, cfg.FloorSize)
		if err != nil {
			return nil, fmt.Errorf("floor: %w", err)
		}
		floor.Color = physics.Green
		if g.Floor, err = w.RegisterBody(floor); err != nil {
			return nil, fmt.Errorf("floor: %w", err)
		}
	}

	return g, nil
}

// SpringCount is the number of distinct neighbour pairs in an n×n grid.
func SpringCount(n int) int {
	if n < 2 {
		return 0
	}
	return 2*n*(n-1) + 2*(n-1)*(n-1)
}

// DemoSpheres registers the two overlapping spheres of the collision demo.
func DemoSpheres(w *physics.World) ([]physics.BodyID, error) {
	big, err := physics.NewSphere(5, mgl64.Vec3{0, 0, 0})
	if err != nil {
		return nil, err
	}
	big.Color = physics.Blue

	small, err := physics.NewSphere(3, mgl64.Vec3{0.5, 1, 0})
	if err != nil {
		return nil, err
	}
	small.Color = physics.Green

	return w.RegisterBodies(big, small)
}
