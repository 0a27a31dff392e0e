package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/orientation/utils"
)

// RotationVector is an orientation whose direction is the rotation axis and whose norm is the
// rotation angle in radians. The zero vector is no rotation.
type RotationVector r3.Vector

// NewRotationVector returns the zero rotation vector.
func NewRotationVector() *RotationVector {
	return &RotationVector{}
}

// Vector returns the rotation vector as an r3.Vector.
func (rv *RotationVector) Vector() r3.Vector {
	return r3.Vector(*rv)
}

// Angle returns the rotation angle, the norm of the vector.
func (rv *RotationVector) Angle() float64 {
	return rv.Vector().Norm()
}

// Set writes the three components.
func (rv *RotationVector) Set(x, y, z float64) {
	*rv = RotationVector{x, y, z}
}

// SetOrientation sets this rotation vector to the rotation described by o.
func (rv *RotationVector) SetOrientation(o Orientation) {
	*rv = *o.RotationVector()
}

// SetToZero sets this rotation vector to the zero vector.
func (rv *RotationVector) SetToZero() {
	*rv = RotationVector{}
}

// SetToNaN poisons every component.
func (rv *RotationVector) SetToNaN() {
	nan := math.NaN()
	*rv = RotationVector{nan, nan, nan}
}

// ContainsNaN returns true if any component is NaN.
func (rv *RotationVector) ContainsNaN() bool {
	return utils.ContainsNaN(rv.X, rv.Y, rv.Z)
}

// Element returns the ith component.
func (rv *RotationVector) Element(i int) (float64, error) {
	switch i {
	case 0:
		return rv.X, nil
	case 1:
		return rv.Y, nil
	case 2:
		return rv.Z, nil
	default:
		return 0, newIndexOutOfBoundsError(i, 2)
	}
}

// Invert negates the vector.
func (rv *RotationVector) Invert() {
	*rv = RotationVector{-rv.X, -rv.Y, -rv.Z}
}

// Append sets this rotation vector to this*other.
func (rv *RotationVector) Append(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.Append(other) })
}

// AppendInvertOther sets this rotation vector to this*other^-1.
func (rv *RotationVector) AppendInvertOther(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.AppendInvertOther(other) })
}

// AppendInvertThis sets this rotation vector to this^-1*other.
func (rv *RotationVector) AppendInvertThis(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.AppendInvertThis(other) })
}

// AppendInvertBoth sets this rotation vector to this^-1*other^-1.
func (rv *RotationVector) AppendInvertBoth(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.AppendInvertBoth(other) })
}

// Prepend sets this rotation vector to other*this.
func (rv *RotationVector) Prepend(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.Prepend(other) })
}

// PrependInvertOther sets this rotation vector to other^-1*this.
func (rv *RotationVector) PrependInvertOther(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.PrependInvertOther(other) })
}

// PrependInvertThis sets this rotation vector to other*this^-1.
func (rv *RotationVector) PrependInvertThis(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.PrependInvertThis(other) })
}

// PrependInvertBoth sets this rotation vector to other^-1*this^-1.
func (rv *RotationVector) PrependInvertBoth(other Orientation) {
	composeThroughQuaternion(rv, func(q *Quaternion) { q.PrependInvertBoth(other) })
}

// Transform rotates v.
func (rv *RotationVector) Transform(v r3.Vector) r3.Vector {
	return rv.Quaternion().Transform(v)
}

// InverseTransform rotates v by the inverse rotation.
func (rv *RotationVector) InverseTransform(v r3.Vector) r3.Vector {
	return rv.Quaternion().InverseTransform(v)
}

// Distance returns the angle of the rotation taking this rotation vector to other, in [0, pi].
func (rv *RotationVector) Distance(other Orientation) float64 {
	return rv.Quaternion().Distance(other)
}

// GeometricallyEquals returns true if the angle between this rotation vector and other is at most epsilon.
func (rv *RotationVector) GeometricallyEquals(other Orientation, epsilon float64) bool {
	return rv.Quaternion().GeometricallyEquals(other, epsilon)
}

// Quaternion returns orientation in quaternion representation.
func (rv *RotationVector) Quaternion() *Quaternion {
	q := Quaternion(RotationVectorToQuat(rv))
	return &q
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rv *RotationVector) RotationMatrix() *RotationMatrix {
	return RotationVectorToRotationMatrix(rv)
}

// AxisAngle returns the orientation in axis angle representation.
func (rv *RotationVector) AxisAngle() *AxisAngle {
	return RotationVectorToAxisAngle(rv)
}

// YawPitchRoll returns the orientation in yaw, pitch, roll representation.
func (rv *RotationVector) YawPitchRoll() *YawPitchRoll {
	return RotationVectorToYawPitchRoll(rv)
}

// RotationVector returns a copy of this rotation vector.
func (rv *RotationVector) RotationVector() *RotationVector {
	out := *rv
	return &out
}

func (rv *RotationVector) String() string {
	return fmt.Sprintf("(%v, %v, %v)", rv.X, rv.Y, rv.Z)
}
