package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/orientation/utils"
)

// RotationScaleMatrix is the matrix R*diag(scale) of a rotation followed by a per axis scale. Unlike
// LinearTransform3D the scale axes are not reordered: they stay aligned with the columns of R as the
// caller set them. Every scale component is >= 0 unless written through SetScaleUnsafe.
type RotationScaleMatrix struct {
	rotation RotationMatrix
	scale    r3.Vector
}

// NewRotationScaleMatrix returns R(o)*diag(scale), failing if a scale component is negative.
func NewRotationScaleMatrix(o Orientation, scale r3.Vector) (*RotationScaleMatrix, error) {
	rsm := &RotationScaleMatrix{rotation: *o.RotationMatrix()}
	if err := rsm.SetScale(scale); err != nil {
		return nil, err
	}
	return rsm, nil
}

// NewIdentityRotationScaleMatrix returns the identity.
func NewIdentityRotationScaleMatrix() *RotationScaleMatrix {
	return &RotationScaleMatrix{rotation: RotationMatrix{identityMatrix}, scale: r3.Vector{X: 1, Y: 1, Z: 1}}
}

func checkScale(s r3.Vector) error {
	for _, v := range [3]float64{s.X, s.Y, s.Z} {
		if !(v >= 0) {
			return newNotARotationScaleMatrixError(fmt.Sprintf("scale %v has a negative or NaN component", s))
		}
	}
	return nil
}

// SetScale sets the scale, failing if any component is negative. Exactly 0 is accepted.
func (rsm *RotationScaleMatrix) SetScale(s r3.Vector) error {
	if err := checkScale(s); err != nil {
		return err
	}
	rsm.scale = s
	return nil
}

// SetScaleUnsafe sets the scale without any check.
func (rsm *RotationScaleMatrix) SetScaleUnsafe(s r3.Vector) {
	rsm.scale = s
}

// Scale returns the scale.
func (rsm *RotationScaleMatrix) Scale() r3.Vector {
	return rsm.scale
}

// SetRotation replaces the rotation, keeping the scale.
func (rsm *RotationScaleMatrix) SetRotation(o Orientation) {
	rsm.rotation.SetOrientation(o)
}

// Rotation returns a copy of the rotation.
func (rsm *RotationScaleMatrix) Rotation() *RotationMatrix {
	return rsm.rotation.RotationMatrix()
}

// Set factors the row major matrix m as R*diag(scale), reading the scale off the column norms. It fails
// if a column is zero or if the normalized columns do not form a rotation matrix.
func (rsm *RotationScaleMatrix) Set(m [9]float64) error {
	var scale [3]float64
	var r [9]float64
	for c := 0; c < 3; c++ {
		col := r3.Vector{X: m[c], Y: m[3+c], Z: m[6+c]}
		n := col.Norm()
		if n == 0 {
			return newNotARotationScaleMatrixError(fmt.Sprintf("column %d is zero", c))
		}
		scale[c] = n
		r[c], r[3+c], r[6+c] = col.X/n, col.Y/n, col.Z/n
	}
	if !isRotationMatrix(r, defaultRotationEpsilon) {
		return newNotARotationScaleMatrixError("rotation factor is not a rotation matrix\n" + formatMatrix(r))
	}
	rsm.rotation.mat = r
	rsm.scale = r3.Vector{X: scale[0], Y: scale[1], Z: scale[2]}
	return nil
}

// SetToNaN poisons every component.
func (rsm *RotationScaleMatrix) SetToNaN() {
	rsm.rotation.SetToNaN()
	nan := math.NaN()
	rsm.scale = r3.Vector{X: nan, Y: nan, Z: nan}
}

// ContainsNaN returns true if any component is NaN.
func (rsm *RotationScaleMatrix) ContainsNaN() bool {
	return rsm.rotation.ContainsNaN() || utils.ContainsNaN(rsm.scale.X, rsm.scale.Y, rsm.scale.Z)
}

// PrependRotation sets the matrix to R(o)*R*diag(scale).
func (rsm *RotationScaleMatrix) PrependRotation(o Orientation) {
	rsm.rotation.Prepend(o)
}

// AppendScale multiplies the scale component-wise by s, failing if any component of s is negative.
func (rsm *RotationScaleMatrix) AppendScale(s r3.Vector) error {
	if err := checkScale(s); err != nil {
		return err
	}
	rsm.scale = r3.Vector{X: rsm.scale.X * s.X, Y: rsm.scale.Y * s.Y, Z: rsm.scale.Z * s.Z}
	return nil
}

// ResetScale sets the scale to (1, 1, 1).
func (rsm *RotationScaleMatrix) ResetScale() {
	rsm.scale = r3.Vector{X: 1, Y: 1, Z: 1}
}

// Matrix returns R*diag(scale) in row major order.
func (rsm *RotationScaleMatrix) Matrix() [9]float64 {
	m := rsm.rotation.mat
	for r := 0; r < 3; r++ {
		m[3*r] *= rsm.scale.X
		m[3*r+1] *= rsm.scale.Y
		m[3*r+2] *= rsm.scale.Z
	}
	return m
}

// Element returns the element at the given row and column.
func (rsm *RotationScaleMatrix) Element(row, column int) (float64, error) {
	v, err := rsm.rotation.Element(row, column)
	if err != nil {
		return 0, err
	}
	return v * [3]float64{rsm.scale.X, rsm.scale.Y, rsm.scale.Z}[column], nil
}

// Determinant returns the product of the scale components.
func (rsm *RotationScaleMatrix) Determinant() float64 {
	return rsm.scale.X * rsm.scale.Y * rsm.scale.Z
}

// IsIdentity returns true if the rotation is identity and the scale (1, 1, 1), within 1e-10.
func (rsm *RotationScaleMatrix) IsIdentity() bool {
	return rsm.rotation.IsIdentity() &&
		math.Abs(rsm.scale.X-1) <= identityEpsilon &&
		math.Abs(rsm.scale.Y-1) <= identityEpsilon &&
		math.Abs(rsm.scale.Z-1) <= identityEpsilon
}

// Transform returns R*diag(scale)*v.
func (rsm *RotationScaleMatrix) Transform(v r3.Vector) r3.Vector {
	return rsm.rotation.Transform(r3.Vector{X: v.X * rsm.scale.X, Y: v.Y * rsm.scale.Y, Z: v.Z * rsm.scale.Z})
}

// InverseTransform returns diag(1/scale)*R^T*v, failing with a SingularMatrix error when a scale component is 0.
func (rsm *RotationScaleMatrix) InverseTransform(v r3.Vector) (r3.Vector, error) {
	if det := rsm.Determinant(); math.Abs(det) < singularEpsilon {
		return r3.Vector{}, newSingularMatrixError(det)
	}
	w := rsm.rotation.InverseTransform(v)
	return r3.Vector{X: w.X / rsm.scale.X, Y: w.Y / rsm.scale.Y, Z: w.Z / rsm.scale.Z}, nil
}

func (rsm *RotationScaleMatrix) String() string {
	return fmt.Sprintf("rotation:\n%v\nscale: %v", &rsm.rotation, rsm.scale)
}
