package acoustic

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometry_Volume(t *testing.T) {
	cyl, err := NewCylinder(0.1, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi*0.01*0.5, cyl.Volume(), 1e-15)
	assert.Equal(t, ShapeCylinder, cyl.Shape())

	box, err := NewCuboid(0.5, 0.3, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, box.Volume(), 1e-15)
	assert.Equal(t, ShapeCuboid, box.Shape())

	again, err := NewGeometry(box.Spec())
	require.NoError(t, err)
	assert.Equal(t, box, again)
}

func TestGeometry_Validation(t *testing.T) {
	tests := []struct {
		name  string
		spec  GeometrySpec
		kind  error
		field string
	}{
		{"cylinder missing height", GeometrySpec{Shape: ShapeCylinder, Radius: 0.1}, ErrValidation, "geometry.height"},
		{"cylinder negative radius", GeometrySpec{Shape: ShapeCylinder, Radius: -0.1, Height: 1}, ErrValidation, "geometry.radius"},
		{"cylinder with x", GeometrySpec{Shape: ShapeCylinder, Radius: 0.1, Height: 1, X: 1}, ErrValidation, "geometry.x"},
		{"cuboid missing z", GeometrySpec{Shape: ShapeCuboid, X: 1, Y: 1}, ErrValidation, "geometry.z"},
		{"cuboid infinite y", GeometrySpec{Shape: ShapeCuboid, X: 1, Y: math.Inf(1), Z: 1}, ErrValidation, "geometry.y"},
		{"cuboid with radius", GeometrySpec{Shape: ShapeCuboid, X: 1, Y: 1, Z: 1, Radius: 0.1}, ErrValidation, "geometry.radius"},
		{"unknown shape", GeometrySpec{X: 1, Y: 1, Z: 1}, ErrConfiguration, "geometry.form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeometry(tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("Cuboid")
	require.NoError(t, err)
	assert.Equal(t, ShapeCuboid, s)

	s, err = ParseShape(" cylinder ")
	require.NoError(t, err)
	assert.Equal(t, ShapeCylinder, s)
	assert.Equal(t, "cylinder", s.String())

	_, err = ParseShape("sphere")
	assert.ErrorIs(t, err, ErrConfiguration)
}
