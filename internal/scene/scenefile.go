// Package scene reads and writes JSON descriptions of a world's initial bodies
// and springs.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"clothsim/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// --- JSON types ---

type SceneFile struct {
	Gravity *[3]float64 `json:"gravity,omitempty"`
	Objects []ObjectDef `json:"objects"`
	Springs []SpringDef `json:"springs,omitempty"`
}

type ObjectDef struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"` // "sphere" or "plane"
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity,omitempty"`
	Mass     float64    `json:"mass,omitempty"`
	Fixed    bool       `json:"fixed,omitempty"`
	Color    string     `json:"color,omitempty"`

	// sphere
	Radius float64 `json:"radius,omitempty"`

	// plane
	Normal [3]float64 `json:"normal,omitempty"`
	Len    float64    `json:"len,omitempty"`
	Wid    float64    `json:"wid,omitempty"`
}

// SpringDef links two objects by name. Nil fields take the spring defaults.
type SpringDef struct {
	A          string   `json:"a"`
	B          string   `json:"b"`
	KHook      *float64 `json:"kHook,omitempty"`
	KDamp      *float64 `json:"kDamp,omitempty"`
	RestLength *float64 `json:"restLength,omitempty"`
}

// --- Color mapping ---

var colorByName = map[string]mgl64.Vec4{
	"White": physics.White,
	"Green": physics.Green,
	"Blue":  physics.Blue,
	"Cyan":  physics.Cyan,
	"Red":   physics.Red,
}

// lookupColor accepts a palette name or #rrggbb / #rrggbbaa.
func lookupColor(name string) (mgl64.Vec4, error) {
	if name == "" {
		return physics.White, nil
	}
	if c, ok := colorByName[name]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(name, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if !strings.HasPrefix(name, "#") || len(hex) != 8 {
		return mgl64.Vec4{}, fmt.Errorf("unknown color %q", name)
	}
	var c mgl64.Vec4
	for i := range c {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return mgl64.Vec4{}, fmt.Errorf("unknown color %q", name)
		}
		c[i] = float64(v) / 255
	}
	return c, nil
}

// --- Loading ---

func Load(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &sf, nil
}

// Apply registers every object and spring of sf in w, in file order, and
// returns the IDs by object name. Unnamed objects are registered but cannot be
// referenced by springs.
func Apply(w *physics.World, sf *SceneFile) (map[string]physics.BodyID, error) {
	if sf.Gravity != nil {
		w.Gravity = mgl64.Vec3(*sf.Gravity)
	}

	ids := make(map[string]physics.BodyID, len(sf.Objects))
	for i, def := range sf.Objects {
		obj, err := buildObject(def)
		if err != nil {
			return ids, fmt.Errorf("object %d (%s): %w", i, def.Name, err)
		}
		id, err := w.RegisterBody(obj)
		if err != nil {
			return ids, fmt.Errorf("object %d (%s): %w", i, def.Name, err)
		}
		if def.Fixed {
			if err := w.SetFixed(id, true); err != nil {
				return ids, err
			}
		}
		if def.Name == "" {
			continue
		}
		if _, dup := ids[def.Name]; dup {
			return ids, fmt.Errorf("%w: duplicate object name %q", physics.ErrInvalidInput, def.Name)
		}
		ids[def.Name] = id
	}

	for i, def := range sf.Springs {
		a, okA := ids[def.A]
		b, okB := ids[def.B]
		if !okA || !okB {
			return ids, fmt.Errorf("spring %d (%s-%s): %w", i, def.A, def.B, physics.ErrUnknownBody)
		}
		var opts []physics.SpringOption
		if def.KHook != nil {
			opts = append(opts, physics.WithStiffness(*def.KHook))
		}
		if def.KDamp != nil {
			opts = append(opts, physics.WithDamping(*def.KDamp))
		}
		if def.RestLength != nil {
			opts = append(opts, physics.WithRestLength(*def.RestLength))
		}
		if _, err := w.AddSpring(a, b, opts...); err != nil {
			return ids, fmt.Errorf("spring %d: %w", i, err)
		}
	}
	return ids, nil
}

func buildObject(def ObjectDef) (physics.Object, error) {
	color, err := lookupColor(def.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", physics.ErrInvalidInput, err)
	}
	mass := def.Mass
	if mass == 0 {
		mass = physics.DefaultMass
	}
	pos := mgl64.Vec3(def.Position)

	switch def.Type {
	case "sphere":
		s, err := physics.NewSphereWithMass(def.Radius, pos, mass)
		if err != nil {
			return nil, err
		}
		s.Velocity = mgl64.Vec3(def.Velocity)
		s.Color = color
		return s, nil
	case "plane":
		normal := mgl64.Vec3(def.Normal)
		if normal == (mgl64.Vec3{}) {
			normal = mgl64.Vec3{0, 1, 0}
		}
		p, err := physics.NewPlane(pos, normal, def.Len, def.Wid)
		if err != nil {
			return nil, err
		}
		p.Mass = mass
		p.Color = color
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown object type %q", physics.ErrInvalidInput, def.Type)
	}
}

// --- Saving ---

// Save writes sf as indented JSON. It stores scene definitions only, never a
// running world.
func Save(path string, sf *SceneFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
