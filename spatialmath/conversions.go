package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/orientation/utils"
)

// Below this value of cos(pitch) yaw and roll are no longer separately observable and roll is
// reported as 0.
const gimbalLockEpsilon = 1e-12

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	QuaternionType     = OrientationType("quaternion")
	RotationMatrixType = OrientationType("rotation_matrix")
	AxisAngleType      = OrientationType("axis_angle")
	YawPitchRollType   = OrientationType("yaw_pitch_roll")
	RotationVectorType = OrientationType("rotation_vector")
)

// Convert returns a new orientation of the requested representation describing the same rotation as o.
func Convert(o Orientation, to OrientationType) (MutableOrientation, error) {
	switch to {
	case QuaternionType:
		return o.Quaternion(), nil
	case RotationMatrixType:
		return o.RotationMatrix(), nil
	case AxisAngleType:
		return o.AxisAngle(), nil
	case YawPitchRollType:
		return o.YawPitchRoll(), nil
	case RotationVectorType:
		return o.RotationVector(), nil
	default:
		return nil, errors.Errorf("orientation type %s not recognized", to)
	}
}

// OrientationTypeOf returns the representation tag of a concrete orientation.
func OrientationTypeOf(o Orientation) (OrientationType, error) {
	switch o.(type) {
	case *Quaternion:
		return QuaternionType, nil
	case *RotationMatrix:
		return RotationMatrixType, nil
	case *AxisAngle:
		return AxisAngleType, nil
	case *YawPitchRoll:
		return YawPitchRollType, nil
	case *RotationVector:
		return RotationVectorType, nil
	default:
		return "", utils.NewUnimplementedInterfaceError((*MutableOrientation)(nil), o)
	}
}

// QuatToRotationMatrix converts a quaternion to a rotation matrix. Non-unit quaternions are
// implicitly normalized.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	return &RotationMatrix{quatToMatrix(q)}
}

func quatToMatrix(q quat.Number) [9]float64 {
	n2 := q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
	if n2 == 0 {
		return identityMatrix
	}
	k := 2 / n2
	x, y, z, s := q.Imag, q.Jmag, q.Kmag, q.Real

	xx, yy, zz := x*x*k, y*y*k, z*z*k
	xy, xz, yz := x*y*k, x*z*k, y*z*k
	sx, sy, sz := s*x*k, s*y*k, s*z*k

	return [9]float64{
		1 - (yy + zz), xy - sz, xz + sy,
		xy + sz, 1 - (xx + zz), yz - sx,
		xz - sy, yz + sx, 1 - (xx + yy),
	}
}

// QuatToAxisAngle converts a quaternion to an axis angle. The angle is 2*atan2(|v|, s) and so lies in
// [0, 2pi]; a quaternion without vector part is reported as a zero rotation about the X axis.
func QuatToAxisAngle(q quat.Number) *AxisAngle {
	vNorm := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if vNorm == 0 {
		return NewAxisAngle()
	}
	return &AxisAngle{
		Theta: 2 * math.Atan2(vNorm, q.Real),
		RX:    q.Imag / vNorm,
		RY:    q.Jmag / vNorm,
		RZ:    q.Kmag / vNorm,
	}
}

// QuatToRotationVector converts a quaternion to a rotation vector, whose norm is the angle
// 2*atan2(|v|, s) and direction the rotation axis. No rotation maps to the zero vector.
func QuatToRotationVector(q quat.Number) *RotationVector {
	vNorm := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if vNorm == 0 {
		return &RotationVector{}
	}
	k := 2 * math.Atan2(vNorm, q.Real) / vNorm
	return &RotationVector{X: q.Imag * k, Y: q.Jmag * k, Z: q.Kmag * k}
}

// QuatToYawPitchRoll converts a quaternion to yaw, pitch and roll. The quaternion does not need to be
// normalized. The pairs (s+y, z-x) and (s-y, z+x) have angles (yaw-roll)/2 and (yaw+roll)/2 and
// lengths proportional to cos(pitch/2 - pi/4) and sin(pi/4 - pitch/2), so every angle comes from an
// atan2 and stays accurate next to the gimbal lock.
// See Bernardes and Viollet, "Quaternion to Euler angles conversion: a direct, general and
// computationally efficient method", PLoS ONE 2022.
// At the gimbal lock roll is reported as 0 and yaw absorbs the remaining rotation.
func QuatToYawPitchRoll(q quat.Number) *YawPitchRoll {
	x, y, z, s := q.Imag, q.Jmag, q.Kmag, q.Real
	a, b := pitchTerms(q)
	if a == 0 && b == 0 {
		return &YawPitchRoll{}
	}
	pitch := math.Pi/2 - 2*math.Atan2(b, a)
	halfDiff := math.Atan2(z-x, s+y)
	halfSum := math.Atan2(z+x, s-y)
	switch cosPitch := 2 * a * b / (a*a + b*b); {
	case cosPitch >= gimbalLockEpsilon:
		return &YawPitchRoll{
			Yaw:   utils.TrimAngle(halfSum + halfDiff),
			Pitch: pitch,
			Roll:  utils.TrimAngle(halfSum - halfDiff),
		}
	case pitch > 0:
		// only yaw - roll is observable
		return &YawPitchRoll{Yaw: utils.TrimAngle(2 * halfDiff), Pitch: pitch}
	default:
		// only yaw + roll is observable
		return &YawPitchRoll{Yaw: utils.TrimAngle(2 * halfSum), Pitch: pitch}
	}
}

// pitchTerms returns |(s+y, z-x)| and |(s-y, z+x)|.
func pitchTerms(q quat.Number) (float64, float64) {
	x, y, z, s := q.Imag, q.Jmag, q.Kmag, q.Real
	return math.Hypot(s+y, z-x), math.Hypot(s-y, z+x)
}

// PitchFromQuat returns only the pitch of a quaternion, in [-pi/2, pi/2]. NaN inputs give a NaN
// pitch, which callers can use to detect a degenerate value.
func PitchFromQuat(q quat.Number) float64 {
	a, b := pitchTerms(q)
	return math.Pi/2 - 2*math.Atan2(b, a)
}

// RotationMatrixToQuat converts a rotation matrix to a unit quaternion with a non-negative scalar part.
// The branch is picked from the largest of the trace and the diagonal terms so that the divisor is
// never close to zero.
func RotationMatrixToQuat(rm *RotationMatrix) quat.Number {
	return matrixToQuat(rm.mat)
}

func matrixToQuat(m [9]float64) quat.Number {
	m00, m01, m02 := m[0], m[1], m[2]
	m10, m11, m12 := m[3], m[4], m[5]
	m20, m21, m22 := m[6], m[7], m[8]

	var s, x, y, z float64
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		r := math.Sqrt(1 + trace)
		f := 0.5 / r
		s = 0.5 * r
		x = (m21 - m12) * f
		y = (m02 - m20) * f
		z = (m10 - m01) * f
	case m00 >= m11 && m00 >= m22:
		r := math.Sqrt(1 + m00 - m11 - m22)
		f := 0.5 / r
		x = 0.5 * r
		s = (m21 - m12) * f
		y = (m01 + m10) * f
		z = (m02 + m20) * f
	case m11 >= m22:
		r := math.Sqrt(1 + m11 - m00 - m22)
		f := 0.5 / r
		y = 0.5 * r
		s = (m02 - m20) * f
		x = (m01 + m10) * f
		z = (m12 + m21) * f
	default:
		r := math.Sqrt(1 + m22 - m00 - m11)
		f := 0.5 / r
		z = 0.5 * r
		s = (m10 - m01) * f
		x = (m02 + m20) * f
		y = (m12 + m21) * f
	}
	if s < 0 {
		s, x, y, z = -s, -x, -y, -z
	}
	n := math.Sqrt(s*s + x*x + y*y + z*z)
	return quat.Number{Real: s / n, Imag: x / n, Jmag: y / n, Kmag: z / n}
}

// RotationMatrixToAxisAngle converts a rotation matrix to an axis angle. The extraction goes through
// the quaternion branches so that angles close to pi keep a well conditioned axis.
func RotationMatrixToAxisAngle(rm *RotationMatrix) *AxisAngle {
	return QuatToAxisAngle(matrixToQuat(rm.mat))
}

// RotationMatrixToRotationVector converts a rotation matrix to a rotation vector.
func RotationMatrixToRotationVector(rm *RotationMatrix) *RotationVector {
	return QuatToRotationVector(matrixToQuat(rm.mat))
}

// RotationMatrixToYawPitchRoll converts a rotation matrix to yaw, pitch and roll, with
// pitch = asin(-m20). The angles are read from the matrix quaternion, see QuatToYawPitchRoll.
func RotationMatrixToYawPitchRoll(rm *RotationMatrix) *YawPitchRoll {
	return QuatToYawPitchRoll(matrixToQuat(rm.mat))
}

// PitchFromRotationMatrix returns only the pitch of a rotation matrix, asin(-m20) computed as an atan2
// so that it keeps its precision next to +-pi/2.
func PitchFromRotationMatrix(rm *RotationMatrix) float64 {
	m := rm.mat
	return math.Atan2(-m[6], math.Hypot(m[7], m[8]))
}

// AxisAngleToQuat converts an axis angle to a unit quaternion. The axis does not need to be normalized;
// a zero axis is treated as no rotation.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/index.htm
func AxisAngleToQuat(aa *AxisAngle) quat.Number {
	axis, ok := aa.unitAxis()
	if !ok {
		return quat.Number{Real: 1}
	}
	sinA, cosA := math.Sincos(aa.Theta / 2)
	return quat.Number{Real: cosA, Imag: axis.X * sinA, Jmag: axis.Y * sinA, Kmag: axis.Z * sinA}
}

// AxisAngleToRotationMatrix converts an axis angle to a rotation matrix with Rodrigues' formula.
func AxisAngleToRotationMatrix(aa *AxisAngle) *RotationMatrix {
	axis, ok := aa.unitAxis()
	if !ok {
		return NewRotationMatrix()
	}
	return &RotationMatrix{rodrigues(axis, aa.Theta)}
}

func rodrigues(u r3.Vector, theta float64) [9]float64 {
	s, c := math.Sincos(theta)
	t := 1 - c
	return [9]float64{
		t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y,
		t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X,
		t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c,
	}
}

// AxisAngleToYawPitchRoll converts an axis angle to yaw, pitch and roll.
func AxisAngleToYawPitchRoll(aa *AxisAngle) *YawPitchRoll {
	return RotationMatrixToYawPitchRoll(AxisAngleToRotationMatrix(aa))
}

// AxisAngleToRotationVector converts an axis angle to a rotation vector.
func AxisAngleToRotationVector(aa *AxisAngle) *RotationVector {
	axis, ok := aa.unitAxis()
	if !ok {
		return &RotationVector{}
	}
	rv := RotationVector(axis.Mul(aa.Theta))
	return &rv
}

// YawPitchRollToQuat converts yaw, pitch and roll to a unit quaternion, q = qz(yaw)*qy(pitch)*qx(roll).
func YawPitchRollToQuat(ypr *YawPitchRoll) quat.Number {
	sy, cy := math.Sincos(ypr.Yaw / 2)
	sp, cp := math.Sincos(ypr.Pitch / 2)
	sr, cr := math.Sincos(ypr.Roll / 2)
	return quat.Number{
		Real: cy*cp*cr + sy*sp*sr,
		Imag: cy*cp*sr - sy*sp*cr,
		Jmag: cy*sp*cr + sy*cp*sr,
		Kmag: sy*cp*cr - cy*sp*sr,
	}
}

// YawPitchRollToRotationMatrix converts yaw, pitch and roll to R = Rz(yaw)*Ry(pitch)*Rx(roll).
func YawPitchRollToRotationMatrix(ypr *YawPitchRoll) *RotationMatrix {
	sy, cy := math.Sincos(ypr.Yaw)
	sp, cp := math.Sincos(ypr.Pitch)
	sr, cr := math.Sincos(ypr.Roll)
	return &RotationMatrix{[9]float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr,
		-sp, cp * sr, cp * cr,
	}}
}

// YawPitchRollToAxisAngle converts yaw, pitch and roll to an axis angle.
func YawPitchRollToAxisAngle(ypr *YawPitchRoll) *AxisAngle {
	return QuatToAxisAngle(YawPitchRollToQuat(ypr))
}

// YawPitchRollToRotationVector converts yaw, pitch and roll to a rotation vector.
func YawPitchRollToRotationVector(ypr *YawPitchRoll) *RotationVector {
	return QuatToRotationVector(YawPitchRollToQuat(ypr))
}

// RotationVectorToQuat converts a rotation vector to a unit quaternion.
func RotationVectorToQuat(rv *RotationVector) quat.Number {
	theta := r3.Vector(*rv).Norm()
	sinA, cosA := math.Sincos(theta / 2)
	// sin(theta/2)/theta tends to 1/2 as theta tends to 0
	k := 0.5
	if theta != 0 {
		k = sinA / theta
	}
	return quat.Number{Real: cosA, Imag: rv.X * k, Jmag: rv.Y * k, Kmag: rv.Z * k}
}

// RotationVectorToAxisAngle converts a rotation vector to an axis angle. The zero vector maps to a
// zero rotation about the X axis.
func RotationVectorToAxisAngle(rv *RotationVector) *AxisAngle {
	theta := r3.Vector(*rv).Norm()
	if theta == 0 {
		return NewAxisAngle()
	}
	return &AxisAngle{Theta: theta, RX: rv.X / theta, RY: rv.Y / theta, RZ: rv.Z / theta}
}

// RotationVectorToRotationMatrix converts a rotation vector to a rotation matrix.
func RotationVectorToRotationMatrix(rv *RotationVector) *RotationMatrix {
	theta := r3.Vector(*rv).Norm()
	if theta == 0 {
		return NewRotationMatrix()
	}
	return &RotationMatrix{rodrigues(r3.Vector(*rv).Mul(1/theta), theta)}
}

// RotationVectorToYawPitchRoll converts a rotation vector to yaw, pitch and roll.
func RotationVectorToYawPitchRoll(rv *RotationVector) *YawPitchRoll {
	return RotationMatrixToYawPitchRoll(RotationVectorToRotationMatrix(rv))
}
