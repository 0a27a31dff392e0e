package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/orientation/utils"
)

// YawPitchRoll is an orientation given by three successive rotations in the moving frame: Yaw about
// Z, then Pitch about Y, then Roll about X, so that R = Rz(Yaw)*Ry(Pitch)*Rx(Roll). All angles are in
// radians. At Pitch = +-pi/2 yaw and roll are not separately observable; values read back from a
// matrix or quaternion at that point report Roll = 0.
type YawPitchRoll struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// NewYawPitchRoll returns a zero rotation.
func NewYawPitchRoll() *YawPitchRoll {
	return &YawPitchRoll{}
}

// NewYawPitchRollFromDegrees returns the orientation of the given angles in degrees.
func NewYawPitchRollFromDegrees(yaw, pitch, roll float64) *YawPitchRoll {
	return &YawPitchRoll{utils.DegToRad(yaw), utils.DegToRad(pitch), utils.DegToRad(roll)}
}

// Set writes the three angles.
func (ypr *YawPitchRoll) Set(yaw, pitch, roll float64) {
	*ypr = YawPitchRoll{yaw, pitch, roll}
}

// SetOrientation sets these angles to the rotation described by o.
func (ypr *YawPitchRoll) SetOrientation(o Orientation) {
	*ypr = *o.YawPitchRoll()
}

// SetToZero sets all angles to 0.
func (ypr *YawPitchRoll) SetToZero() {
	*ypr = YawPitchRoll{}
}

// SetToNaN poisons every angle.
func (ypr *YawPitchRoll) SetToNaN() {
	nan := math.NaN()
	*ypr = YawPitchRoll{nan, nan, nan}
}

// ContainsNaN returns true if any angle is NaN.
func (ypr *YawPitchRoll) ContainsNaN() bool {
	return utils.ContainsNaN(ypr.Yaw, ypr.Pitch, ypr.Roll)
}

// Invert replaces these angles with those of the inverse rotation.
func (ypr *YawPitchRoll) Invert() {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.Invert() })
}

// Append sets these angles to this*other.
func (ypr *YawPitchRoll) Append(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.Append(other) })
}

// AppendInvertOther sets these angles to this*other^-1.
func (ypr *YawPitchRoll) AppendInvertOther(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.AppendInvertOther(other) })
}

// AppendInvertThis sets these angles to this^-1*other.
func (ypr *YawPitchRoll) AppendInvertThis(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.AppendInvertThis(other) })
}

// AppendInvertBoth sets these angles to this^-1*other^-1.
func (ypr *YawPitchRoll) AppendInvertBoth(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.AppendInvertBoth(other) })
}

// Prepend sets these angles to other*this.
func (ypr *YawPitchRoll) Prepend(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.Prepend(other) })
}

// PrependInvertOther sets these angles to other^-1*this.
func (ypr *YawPitchRoll) PrependInvertOther(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.PrependInvertOther(other) })
}

// PrependInvertThis sets these angles to other*this^-1.
func (ypr *YawPitchRoll) PrependInvertThis(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.PrependInvertThis(other) })
}

// PrependInvertBoth sets these angles to other^-1*this^-1.
func (ypr *YawPitchRoll) PrependInvertBoth(other Orientation) {
	composeThroughQuaternion(ypr, func(q *Quaternion) { q.PrependInvertBoth(other) })
}

// Transform rotates v.
func (ypr *YawPitchRoll) Transform(v r3.Vector) r3.Vector {
	return ypr.RotationMatrix().Transform(v)
}

// InverseTransform rotates v by the inverse rotation.
func (ypr *YawPitchRoll) InverseTransform(v r3.Vector) r3.Vector {
	return ypr.RotationMatrix().InverseTransform(v)
}

// Distance returns the angle of the rotation taking this orientation to other, in [0, pi].
func (ypr *YawPitchRoll) Distance(other Orientation) float64 {
	return ypr.Quaternion().Distance(other)
}

// GeometricallyEquals returns true if the angle between this orientation and other is at most epsilon.
func (ypr *YawPitchRoll) GeometricallyEquals(other Orientation, epsilon float64) bool {
	return ypr.Quaternion().GeometricallyEquals(other, epsilon)
}

// Quaternion returns orientation in quaternion representation.
func (ypr *YawPitchRoll) Quaternion() *Quaternion {
	q := Quaternion(YawPitchRollToQuat(ypr))
	return &q
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (ypr *YawPitchRoll) RotationMatrix() *RotationMatrix {
	return YawPitchRollToRotationMatrix(ypr)
}

// AxisAngle returns the orientation in axis angle representation.
func (ypr *YawPitchRoll) AxisAngle() *AxisAngle {
	return YawPitchRollToAxisAngle(ypr)
}

// YawPitchRoll returns a copy of these angles.
func (ypr *YawPitchRoll) YawPitchRoll() *YawPitchRoll {
	out := *ypr
	return &out
}

// RotationVector returns the orientation in rotation vector representation.
func (ypr *YawPitchRoll) RotationVector() *RotationVector {
	return YawPitchRollToRotationVector(ypr)
}

func (ypr *YawPitchRoll) String() string {
	return fmt.Sprintf("(yaw: %v, pitch: %v, roll: %v)", ypr.Yaw, ypr.Pitch, ypr.Roll)
}
