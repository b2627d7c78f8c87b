package acoustic

import (
	"maps"
	"math"
	"slices"
	"strings"
)

// Shape selects the cavity form.
type Shape int

const (
	ShapeCylinder Shape = iota + 1
	ShapeCuboid
)

// String returns the record name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeCylinder:
		return "cylinder"
	case ShapeCuboid:
		return "cuboid"
	default:
		return "unknown"
	}
}

// ParseShape converts a record string into a Shape.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cylinder":
		return ShapeCylinder, nil
	case "cuboid":
		return ShapeCuboid, nil
	default:
		return 0, unsupported("geometry.form", s, "cylinder, cuboid")
	}
}

// GeometrySpec is the record form of a cavity. Only the dimensions of the
// chosen shape may be set; zero means absent.
type GeometrySpec struct {
	Shape  Shape
	Radius float64
	Height float64
	X      float64
	Y      float64
	Z      float64
}

// Geometry is a validated cavity.
type Geometry struct {
	shape  Shape
	radius float64
	height float64
	x      float64
	y      float64
	z      float64
	volume float64
}

// NewCylinder returns a cylindrical cavity.
func NewCylinder(radius, height float64) (Geometry, error) {
	return NewGeometry(GeometrySpec{Shape: ShapeCylinder, Radius: radius, Height: height})
}

// NewCuboid returns a cuboid cavity.
func NewCuboid(x, y, z float64) (Geometry, error) {
	return NewGeometry(GeometrySpec{Shape: ShapeCuboid, X: x, Y: y, Z: z})
}

// NewGeometry validates spec and computes the cavity volume.
func NewGeometry(spec GeometrySpec) (Geometry, error) {
	switch spec.Shape {
	case ShapeCylinder:
		if err := rejectExtra("geometry", "cylinder", map[string]float64{
			"x": spec.X, "y": spec.Y, "z": spec.Z,
		}); err != nil {
			return Geometry{}, err
		}
		if err := requireDims("geometry", map[string]float64{
			"radius": spec.Radius, "height": spec.Height,
		}); err != nil {
			return Geometry{}, err
		}
		return Geometry{
			shape:  ShapeCylinder,
			radius: spec.Radius,
			height: spec.Height,
			volume: math.Pi * spec.Radius * spec.Radius * spec.Height,
		}, nil

	case ShapeCuboid:
		if err := rejectExtra("geometry", "cuboid", map[string]float64{
			"radius": spec.Radius, "height": spec.Height,
		}); err != nil {
			return Geometry{}, err
		}
		if err := requireDims("geometry", map[string]float64{
			"x": spec.X, "y": spec.Y, "z": spec.Z,
		}); err != nil {
			return Geometry{}, err
		}
		return Geometry{
			shape:  ShapeCuboid,
			x:      spec.X,
			y:      spec.Y,
			z:      spec.Z,
			volume: spec.X * spec.Y * spec.Z,
		}, nil

	default:
		return Geometry{}, unsupported("geometry.form", spec.Shape.String(), "cylinder, cuboid")
	}
}

// Shape returns the cavity form.
func (g Geometry) Shape() Shape { return g.shape }

// Volume returns the cavity volume in m³.
func (g Geometry) Volume() float64 { return g.volume }

// Spec returns the record form of g.
func (g Geometry) Spec() GeometrySpec {
	return GeometrySpec{Shape: g.shape, Radius: g.radius, Height: g.height, X: g.x, Y: g.y, Z: g.z}
}

// requireDims checks every named dimension is present and positive. Names are
// checked in sorted order so the reported field is stable.
func requireDims(prefix string, dims map[string]float64) error {
	for _, name := range slices.Sorted(maps.Keys(dims)) {
		v := dims[name]
		field := prefix + "." + name
		if v == 0 {
			return missing(field, "is required")
		}
		if err := requirePositive(field, v); err != nil {
			return err
		}
	}
	return nil
}

// rejectExtra fails when a dimension that does not belong to form is set.
func rejectExtra(prefix, form string, dims map[string]float64) error {
	for _, name := range slices.Sorted(maps.Keys(dims)) {
		if v := dims[name]; v != 0 {
			return invalid(prefix+"."+name, "must not be set for "+form, v)
		}
	}
	return nil
}
