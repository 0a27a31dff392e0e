package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is an interface used to express the different parameterizations of the orientation
// of a rigid object or a frame of reference in 3D Euclidean space.
type Orientation interface {
	Quaternion() *Quaternion
	RotationMatrix() *RotationMatrix
	AxisAngle() *AxisAngle
	YawPitchRoll() *YawPitchRoll
	RotationVector() *RotationVector

	// Transform rotates v by this orientation.
	Transform(v r3.Vector) r3.Vector
	// InverseTransform rotates v by the inverse of this orientation.
	InverseTransform(v r3.Vector) r3.Vector

	// Distance returns the angle, in [0, pi], of the rotation taking this orientation to other.
	Distance(other Orientation) float64
	GeometricallyEquals(other Orientation, epsilon float64) bool
}

// MutableOrientation is an Orientation that can be updated in place. Every representation of this
// package implements it.
//
// For A the receiver and B the argument, the composition family stores:
//
//	Append             A * B
//	AppendInvertOther  A * B^-1
//	AppendInvertThis   A^-1 * B
//	AppendInvertBoth   A^-1 * B^-1
//	Prepend            B * A
//	PrependInvertOther B^-1 * A
//	PrependInvertThis  B * A^-1
//	PrependInvertBoth  B^-1 * A^-1
type MutableOrientation interface {
	Orientation

	SetOrientation(o Orientation)
	SetToZero()
	SetToNaN()
	ContainsNaN() bool
	Invert()

	Append(other Orientation)
	AppendInvertOther(other Orientation)
	AppendInvertThis(other Orientation)
	AppendInvertBoth(other Orientation)
	Prepend(other Orientation)
	PrependInvertOther(other Orientation)
	PrependInvertThis(other Orientation)
	PrependInvertBoth(other Orientation)
}

// NewZeroOrientation returns an orientatation which signifies no rotation.
func NewZeroOrientation() MutableOrientation {
	return NewQuaternion()
}

// OrientationAlmostEqual will return a bool describing whether 2 poses have approximately the same orientation.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return o1.Quaternion().GeometricallyEquals(o2, 1e-5)
}

// OrientationBetween returns the orientation representing the difference between the two given Orientations,
// that is the rotation r such that r * o1 = o2.
func OrientationBetween(o1, o2 Orientation) *Quaternion {
	q := Quaternion(quat.Mul(quatOf(o2), quat.Conj(quatOf(o1))))
	return &q
}

// OrientationInverse returns a new orientation which is the inverse of o.
func OrientationInverse(o Orientation) *Quaternion {
	q := o.Quaternion()
	q.Invert()
	return q
}

// composeThroughQuaternion is the composition strategy of the representations that have no
// algebra of their own: the receiver is lifted to a quaternion, updated by fn, and written back.
func composeThroughQuaternion(dst MutableOrientation, fn func(q *Quaternion)) {
	q := dst.Quaternion()
	fn(q)
	dst.SetOrientation(q)
}

// quatOf returns the gonum quaternion of any orientation.
func quatOf(o Orientation) quat.Number {
	return quat.Number(*o.Quaternion())
}
