package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/orientation/utils"
)

// See here for a thorough explanation: https://en.wikipedia.org/wiki/Axis%E2%80%93angle_representation
// Basic explanation: Imagine a 3d cartesian grid centered at 0,0,0, and a sphere of radius 1 centered at
// that same point. An orientation can be expressed by first specifying an axis, i.e. a line from the origin
// to a point on that sphere, represented by (rx, ry, rz), and a rotation around that axis, theta.
// The angle is not wrapped: theta and theta + 2pi describe the same rotation.

// AxisAngle represents an orientation as a rotation of Theta radians about the unit axis (RX, RY, RZ).
type AxisAngle struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewAxisAngle returns a zero rotation about the X axis.
func NewAxisAngle() *AxisAngle {
	return &AxisAngle{Theta: 0, RX: 1, RY: 0, RZ: 0}
}

// NewAxisAngleFromVector returns a rotation of theta radians about axis. The axis is normalized; a zero
// axis gives a zero rotation.
func NewAxisAngleFromVector(axis r3.Vector, theta float64) *AxisAngle {
	aa := &AxisAngle{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
	aa.Normalize()
	return aa
}

// Axis returns the rotation axis.
func (aa *AxisAngle) Axis() r3.Vector {
	return r3.Vector{X: aa.RX, Y: aa.RY, Z: aa.RZ}
}

// unitAxis returns the normalized axis, or false if the axis is the zero vector.
func (aa *AxisAngle) unitAxis() (r3.Vector, bool) {
	axis := aa.Axis()
	norm := axis.Norm()
	if norm == 0 {
		return r3.Vector{}, false
	}
	if norm == 1 {
		return axis, true
	}
	return axis.Mul(1 / norm), true
}

// Normalize scales the axis to unit length. A zero axis is replaced by a zero rotation about X.
func (aa *AxisAngle) Normalize() {
	axis, ok := aa.unitAxis()
	if !ok {
		*aa = *NewAxisAngle()
		return
	}
	aa.RX, aa.RY, aa.RZ = axis.X, axis.Y, axis.Z
}

// Set writes the angle and axis; the axis is normalized.
func (aa *AxisAngle) Set(theta, rx, ry, rz float64) {
	*aa = AxisAngle{theta, rx, ry, rz}
	aa.Normalize()
}

// SetUnsafe writes the angle and axis as given.
func (aa *AxisAngle) SetUnsafe(theta, rx, ry, rz float64) {
	*aa = AxisAngle{theta, rx, ry, rz}
}

// SetOrientation sets this axis angle to the rotation described by o.
func (aa *AxisAngle) SetOrientation(o Orientation) {
	*aa = *o.AxisAngle()
}

// SetToZero sets this axis angle to a zero rotation about X.
func (aa *AxisAngle) SetToZero() {
	*aa = *NewAxisAngle()
}

// SetToNaN poisons every component.
func (aa *AxisAngle) SetToNaN() {
	nan := math.NaN()
	*aa = AxisAngle{nan, nan, nan, nan}
}

// ContainsNaN returns true if any component is NaN.
func (aa *AxisAngle) ContainsNaN() bool {
	return utils.ContainsNaN(aa.Theta, aa.RX, aa.RY, aa.RZ)
}

// Invert negates the angle.
func (aa *AxisAngle) Invert() {
	aa.Theta = -aa.Theta
}

// Append sets this axis angle to this*other.
func (aa *AxisAngle) Append(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.Append(other) })
}

// AppendInvertOther sets this axis angle to this*other^-1.
func (aa *AxisAngle) AppendInvertOther(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.AppendInvertOther(other) })
}

// AppendInvertThis sets this axis angle to this^-1*other.
func (aa *AxisAngle) AppendInvertThis(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.AppendInvertThis(other) })
}

// AppendInvertBoth sets this axis angle to this^-1*other^-1.
func (aa *AxisAngle) AppendInvertBoth(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.AppendInvertBoth(other) })
}

// Prepend sets this axis angle to other*this.
func (aa *AxisAngle) Prepend(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.Prepend(other) })
}

// PrependInvertOther sets this axis angle to other^-1*this.
func (aa *AxisAngle) PrependInvertOther(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.PrependInvertOther(other) })
}

// PrependInvertThis sets this axis angle to other*this^-1.
func (aa *AxisAngle) PrependInvertThis(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.PrependInvertThis(other) })
}

// PrependInvertBoth sets this axis angle to other^-1*this^-1.
func (aa *AxisAngle) PrependInvertBoth(other Orientation) {
	composeThroughQuaternion(aa, func(q *Quaternion) { q.PrependInvertBoth(other) })
}

// Transform rotates v with Rodrigues' formula.
func (aa *AxisAngle) Transform(v r3.Vector) r3.Vector {
	axis, ok := aa.unitAxis()
	if !ok {
		return v
	}
	return transformVector(rodrigues(axis, aa.Theta), v)
}

// InverseTransform rotates v by -Theta about the axis.
func (aa *AxisAngle) InverseTransform(v r3.Vector) r3.Vector {
	axis, ok := aa.unitAxis()
	if !ok {
		return v
	}
	return transformVector(rodrigues(axis, -aa.Theta), v)
}

// Distance returns the angle of the rotation taking this axis angle to other, in [0, pi].
func (aa *AxisAngle) Distance(other Orientation) float64 {
	return aa.Quaternion().Distance(other)
}

// GeometricallyEquals returns true if the angle between this axis angle and other is at most epsilon.
func (aa *AxisAngle) GeometricallyEquals(other Orientation, epsilon float64) bool {
	return aa.Quaternion().GeometricallyEquals(other, epsilon)
}

// ToR3 converts the axis angle to a rotation vector as an r3.Vector.
func (aa *AxisAngle) ToR3() r3.Vector {
	return r3.Vector(*aa.RotationVector())
}

// Quaternion returns orientation in quaternion representation.
func (aa *AxisAngle) Quaternion() *Quaternion {
	q := Quaternion(AxisAngleToQuat(aa))
	return &q
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (aa *AxisAngle) RotationMatrix() *RotationMatrix {
	return AxisAngleToRotationMatrix(aa)
}

// AxisAngle returns a copy of this axis angle.
func (aa *AxisAngle) AxisAngle() *AxisAngle {
	out := *aa
	return &out
}

// YawPitchRoll returns the orientation in yaw, pitch, roll representation.
func (aa *AxisAngle) YawPitchRoll() *YawPitchRoll {
	return AxisAngleToYawPitchRoll(aa)
}

// RotationVector returns the orientation in rotation vector representation.
func (aa *AxisAngle) RotationVector() *RotationVector {
	return AxisAngleToRotationVector(aa)
}

func (aa *AxisAngle) String() string {
	return fmt.Sprintf("(theta: %v, axis: (%v, %v, %v))", aa.Theta, aa.RX, aa.RY, aa.RZ)
}
