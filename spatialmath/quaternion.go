package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/orientation/utils"
)

// Below this value of 1 - |q0 . qf| Slerp falls back to a normalized linear interpolation.
const slerpEpsilon = 1e-10

// Quaternion is an orientation in quaternion representation. Real holds the scalar part s and
// Imag, Jmag, Kmag the vector part (x, y, z). Quaternions obtained through the safe setters of this
// package have unit norm; q and -q describe the same rotation.
type Quaternion quat.Number

// NewQuaternion returns the identity quaternion.
func NewQuaternion() *Quaternion {
	return &Quaternion{Real: 1}
}

// NewQuaternionFromComponents returns the quaternion (x, y, z, s) scaled to unit norm.
func NewQuaternionFromComponents(x, y, z, s float64) *Quaternion {
	q := &Quaternion{}
	q.Set(x, y, z, s)
	return q
}

// NewQuaternionFromOrientation returns the quaternion of any orientation.
func NewQuaternionFromOrientation(o Orientation) *Quaternion {
	return o.Quaternion()
}

// Number returns the underlying gonum quaternion.
func (q *Quaternion) Number() quat.Number {
	return quat.Number(*q)
}

// X returns the first component of the vector part.
func (q *Quaternion) X() float64 { return q.Imag }

// Y returns the second component of the vector part.
func (q *Quaternion) Y() float64 { return q.Jmag }

// Z returns the third component of the vector part.
func (q *Quaternion) Z() float64 { return q.Kmag }

// S returns the scalar part.
func (q *Quaternion) S() float64 { return q.Real }

// Set writes the four components and normalizes the result.
func (q *Quaternion) Set(x, y, z, s float64) {
	q.SetUnsafe(x, y, z, s)
	q.Normalize()
}

// SetUnsafe writes the four components as given. The caller is responsible for providing a unit quaternion.
func (q *Quaternion) SetUnsafe(x, y, z, s float64) {
	*q = Quaternion{Real: s, Imag: x, Jmag: y, Kmag: z}
}

// SetOrientation sets this quaternion to the rotation described by o.
func (q *Quaternion) SetOrientation(o Orientation) {
	*q = *o.Quaternion()
}

// SetToZero sets this quaternion to identity.
func (q *Quaternion) SetToZero() {
	*q = Quaternion{Real: 1}
}

// SetToNaN poisons every component.
func (q *Quaternion) SetToNaN() {
	nan := math.NaN()
	*q = Quaternion{nan, nan, nan, nan}
}

// ContainsNaN returns true if any component is NaN.
func (q *Quaternion) ContainsNaN() bool {
	return utils.ContainsNaN(q.Real, q.Imag, q.Jmag, q.Kmag)
}

// Element returns the ith component in (x, y, z, s) order.
func (q *Quaternion) Element(i int) (float64, error) {
	switch i {
	case 0:
		return q.Imag, nil
	case 1:
		return q.Jmag, nil
	case 2:
		return q.Kmag, nil
	case 3:
		return q.Real, nil
	default:
		return 0, newIndexOutOfBoundsError(i, 3)
	}
}

// Dot returns the four dimensional dot product of the two quaternions.
func (q *Quaternion) Dot(other *Quaternion) float64 {
	return q.Real*other.Real + q.Imag*other.Imag + q.Jmag*other.Jmag + q.Kmag*other.Kmag
}

// NormSquared returns the squared norm.
func (q *Quaternion) NormSquared() float64 {
	return q.Dot(q)
}

// Norm returns the norm.
func (q *Quaternion) Norm() float64 {
	return math.Sqrt(q.NormSquared())
}

// Normalize scales this quaternion to unit norm. The zero quaternion becomes the identity.
func (q *Quaternion) Normalize() {
	n := q.Norm()
	if n == 0 {
		q.SetToZero()
		return
	}
	if n == 1 {
		return
	}
	*q = Quaternion{q.Real / n, q.Imag / n, q.Jmag / n, q.Kmag / n}
}

// IsUnitary returns true if the norm of this quaternion is within epsilon of 1.
func (q *Quaternion) IsUnitary(epsilon float64) bool {
	return math.Abs(q.Norm()-1) <= epsilon
}

// Conjugate negates the vector part in place.
func (q *Quaternion) Conjugate() {
	*q = Quaternion(quat.Conj(quat.Number(*q)))
}

// Negate negates every component in place. The rotation is unchanged.
func (q *Quaternion) Negate() {
	*q = Quaternion{-q.Real, -q.Imag, -q.Jmag, -q.Kmag}
}

// Invert inverts this quaternion in place. For a unit quaternion this is the conjugate; otherwise the
// conjugate is divided by the squared norm.
func (q *Quaternion) Invert() {
	n2 := q.NormSquared()
	q.Conjugate()
	if n2 != 1 && n2 != 0 {
		*q = Quaternion{q.Real / n2, q.Imag / n2, q.Jmag / n2, q.Kmag / n2}
	}
}

// Angle returns the rotation angle 2*atan2(|v|, s), in [0, 2pi].
func (q *Quaternion) Angle() float64 {
	vNorm := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	return 2 * math.Atan2(vNorm, q.Real)
}

// rotationAngle returns the angle of the rotation described by q, folded into [0, pi].
func rotationAngle(q quat.Number) float64 {
	vNorm := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	return 2 * math.Atan2(vNorm, math.Abs(q.Real))
}

// Multiply sets this quaternion to this*other (Hamilton product). It is the same as Append.
func (q *Quaternion) Multiply(other Orientation) {
	q.Append(other)
}

// unitTolerance is how far from 1 the squared norms of both factors of a product may be for the
// product to be pulled back onto the unit sphere.
const unitTolerance = 1e-9

// hamilton returns a*b with fused multiply-adds. When both factors are unit quaternions the result
// gets a first order norm correction, so that long chains of products keep unit norm.
func hamilton(a, b quat.Number) quat.Number {
	p := quat.Number{
		Real: math.FMA(a.Real, b.Real, math.FMA(-a.Imag, b.Imag, math.FMA(-a.Jmag, b.Jmag, -a.Kmag*b.Kmag))),
		Imag: math.FMA(a.Real, b.Imag, math.FMA(a.Imag, b.Real, math.FMA(a.Jmag, b.Kmag, -a.Kmag*b.Jmag))),
		Jmag: math.FMA(a.Real, b.Jmag, math.FMA(-a.Imag, b.Kmag, math.FMA(a.Jmag, b.Real, a.Kmag*b.Imag))),
		Kmag: math.FMA(a.Real, b.Kmag, math.FMA(a.Imag, b.Jmag, math.FMA(-a.Jmag, b.Imag, a.Kmag*b.Real))),
	}
	if math.Abs(normSquared(a)-1) > unitTolerance || math.Abs(normSquared(b)-1) > unitTolerance {
		return p
	}
	return quat.Scale((3-normSquared(p))/2, p)
}

func normSquared(q quat.Number) float64 {
	return math.FMA(q.Real, q.Real, math.FMA(q.Imag, q.Imag, math.FMA(q.Jmag, q.Jmag, q.Kmag*q.Kmag)))
}

func conj(o Orientation) quat.Number {
	return quat.Conj(quatOf(o))
}

// Append sets this quaternion to this*other.
func (q *Quaternion) Append(other Orientation) {
	*q = Quaternion(hamilton(quat.Number(*q), quatOf(other)))
}

// AppendInvertOther sets this quaternion to this*other^-1.
func (q *Quaternion) AppendInvertOther(other Orientation) {
	*q = Quaternion(hamilton(quat.Number(*q), conj(other)))
}

// AppendInvertThis sets this quaternion to this^-1*other.
func (q *Quaternion) AppendInvertThis(other Orientation) {
	*q = Quaternion(hamilton(quat.Conj(quat.Number(*q)), quatOf(other)))
}

// AppendInvertBoth sets this quaternion to this^-1*other^-1.
func (q *Quaternion) AppendInvertBoth(other Orientation) {
	*q = Quaternion(hamilton(quat.Conj(quat.Number(*q)), conj(other)))
}

// Prepend sets this quaternion to other*this.
func (q *Quaternion) Prepend(other Orientation) {
	*q = Quaternion(hamilton(quatOf(other), quat.Number(*q)))
}

// PrependInvertOther sets this quaternion to other^-1*this.
func (q *Quaternion) PrependInvertOther(other Orientation) {
	*q = Quaternion(hamilton(conj(other), quat.Number(*q)))
}

// PrependInvertThis sets this quaternion to other*this^-1.
func (q *Quaternion) PrependInvertThis(other Orientation) {
	*q = Quaternion(hamilton(quatOf(other), quat.Conj(quat.Number(*q))))
}

// PrependInvertBoth sets this quaternion to other^-1*this^-1.
func (q *Quaternion) PrependInvertBoth(other Orientation) {
	*q = Quaternion(hamilton(conj(other), quat.Conj(quat.Number(*q))))
}

// Distance returns the angle of the rotation taking this quaternion to other, in [0, pi]. q and -q
// are at distance exactly 0.
func (q *Quaternion) Distance(other Orientation) float64 {
	o := other.Quaternion()
	ratio := math.Abs(q.Dot(o)) / math.Sqrt(q.NormSquared()*o.NormSquared())
	return 2 * math.Acos(utils.Clamp(ratio, 0, 1))
}

// DistancePrecise returns the same angle as Distance using the chord lengths |q - o| and |q + o|,
// which keeps full precision for angles close to 0 and pi where an arccosine does not.
func (q *Quaternion) DistancePrecise(other Orientation) float64 {
	a := *q
	b := *other.Quaternion()
	a.Normalize()
	b.Normalize()
	if a.Dot(&b) < 0 {
		b.Negate()
	}
	diff := Quaternion{a.Real - b.Real, a.Imag - b.Imag, a.Jmag - b.Jmag, a.Kmag - b.Kmag}
	sum := Quaternion{a.Real + b.Real, a.Imag + b.Imag, a.Jmag + b.Jmag, a.Kmag + b.Kmag}
	return 4 * math.Atan2(diff.Norm(), sum.Norm())
}

// GeometricallyEquals returns true if the rotation between this quaternion and other is at most epsilon
// radians, regardless of the sign of either operand.
func (q *Quaternion) GeometricallyEquals(other Orientation, epsilon float64) bool {
	return q.DistancePrecise(other) <= epsilon
}

// Interpolate sets this quaternion to the spherical linear interpolation between q0 and qf.
func (q *Quaternion) Interpolate(q0, qf Orientation, alpha float64) {
	*q = *Slerp(q0.Quaternion(), qf.Quaternion(), alpha)
}

// Slerp returns the spherical linear interpolation between q0 and qf along the shorter arc.
// alpha = 0 returns q0 and alpha = 1 returns qf, both unmodified.
// See https://en.wikipedia.org/wiki/Slerp
func Slerp(q0, qf *Quaternion, alpha float64) *Quaternion {
	switch alpha {
	case 0:
		out := *q0
		return &out
	case 1:
		out := *qf
		return &out
	}
	end := *qf
	dot := q0.Dot(&end)
	if dot < 0 {
		end.Negate()
		dot = -dot
	}

	var k0, kf float64
	if 1-dot < slerpEpsilon {
		k0, kf = 1-alpha, alpha
	} else {
		theta := math.Acos(math.Min(dot, 1))
		sinTheta := math.Sin(theta)
		k0 = math.Sin((1-alpha)*theta) / sinTheta
		kf = math.Sin(alpha*theta) / sinTheta
	}
	out := Quaternion{
		Real: k0*q0.Real + kf*end.Real,
		Imag: k0*q0.Imag + kf*end.Imag,
		Jmag: k0*q0.Jmag + kf*end.Jmag,
		Kmag: k0*q0.Kmag + kf*end.Kmag,
	}
	out.Normalize()
	return &out
}

// Transform rotates v by this quaternion. Non-unit quaternions are treated as their normalized value.
func (q *Quaternion) Transform(v r3.Vector) r3.Vector {
	u := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	s := q.Real
	n2 := q.NormSquared()
	out := v.Mul(s*s - u.Dot(u)).Add(u.Mul(2 * u.Dot(v))).Add(u.Cross(v).Mul(2 * s))
	if n2 == 1 {
		return out
	}
	return out.Mul(1 / n2)
}

// InverseTransform rotates v by the inverse of this quaternion.
func (q *Quaternion) InverseTransform(v r3.Vector) r3.Vector {
	c := Quaternion(quat.Conj(quat.Number(*q)))
	return c.Transform(v)
}

// IsOrientation2D returns true if this quaternion only rotates about the Z axis, within epsilon.
func (q *Quaternion) IsOrientation2D(epsilon float64) bool {
	n := q.Norm()
	return math.Abs(q.Imag) <= epsilon*n && math.Abs(q.Jmag) <= epsilon*n
}

// CheckIfOrientation2D returns a NotAnOrientation2D error if IsOrientation2D(epsilon) is false.
func (q *Quaternion) CheckIfOrientation2D(epsilon float64) error {
	if !q.IsOrientation2D(epsilon) {
		return newNotAnOrientation2DError(q)
	}
	return nil
}

// Transform2D rotates a point of the XY-plane. It fails if this quaternion is not a rotation about Z within epsilon.
func (q *Quaternion) Transform2D(p r2.Point, epsilon float64) (r2.Point, error) {
	if err := q.CheckIfOrientation2D(epsilon); err != nil {
		return r2.Point{}, err
	}
	sinA, cosA := math.Sincos(2 * math.Atan2(q.Kmag, q.Real))
	return r2.Point{X: cosA*p.X - sinA*p.Y, Y: sinA*p.X + cosA*p.Y}, nil
}

// SetToYawQuaternion sets this quaternion to a rotation of yaw radians about the Z axis.
func (q *Quaternion) SetToYawQuaternion(yaw float64) {
	sinA, cosA := math.Sincos(yaw / 2)
	*q = Quaternion{Real: cosA, Kmag: sinA}
}

// SetToPitchQuaternion sets this quaternion to a rotation of pitch radians about the Y axis.
func (q *Quaternion) SetToPitchQuaternion(pitch float64) {
	sinA, cosA := math.Sincos(pitch / 2)
	*q = Quaternion{Real: cosA, Jmag: sinA}
}

// SetToRollQuaternion sets this quaternion to a rotation of roll radians about the X axis.
func (q *Quaternion) SetToRollQuaternion(roll float64) {
	sinA, cosA := math.Sincos(roll / 2)
	*q = Quaternion{Real: cosA, Imag: sinA}
}

// AppendYawRotation sets this quaternion to this*qz(yaw).
func (q *Quaternion) AppendYawRotation(yaw float64) {
	var r Quaternion
	r.SetToYawQuaternion(yaw)
	q.Append(&r)
}

// AppendPitchRotation sets this quaternion to this*qy(pitch).
func (q *Quaternion) AppendPitchRotation(pitch float64) {
	var r Quaternion
	r.SetToPitchQuaternion(pitch)
	q.Append(&r)
}

// AppendRollRotation sets this quaternion to this*qx(roll).
func (q *Quaternion) AppendRollRotation(roll float64) {
	var r Quaternion
	r.SetToRollQuaternion(roll)
	q.Append(&r)
}

// PrependYawRotation sets this quaternion to qz(yaw)*this.
func (q *Quaternion) PrependYawRotation(yaw float64) {
	var r Quaternion
	r.SetToYawQuaternion(yaw)
	q.Prepend(&r)
}

// PrependPitchRotation sets this quaternion to qy(pitch)*this.
func (q *Quaternion) PrependPitchRotation(pitch float64) {
	var r Quaternion
	r.SetToPitchQuaternion(pitch)
	q.Prepend(&r)
}

// PrependRollRotation sets this quaternion to qx(roll)*this.
func (q *Quaternion) PrependRollRotation(roll float64) {
	var r Quaternion
	r.SetToRollQuaternion(roll)
	q.Prepend(&r)
}

// Yaw returns the yaw of this rotation.
func (q *Quaternion) Yaw() float64 {
	return QuatToYawPitchRoll(quat.Number(*q)).Yaw
}

// Pitch returns the pitch of this rotation.
func (q *Quaternion) Pitch() float64 {
	return PitchFromQuat(quat.Number(*q))
}

// Roll returns the roll of this rotation.
func (q *Quaternion) Roll() float64 {
	return QuatToYawPitchRoll(quat.Number(*q)).Roll
}

// Quaternion returns a copy of this quaternion.
func (q *Quaternion) Quaternion() *Quaternion {
	out := *q
	return &out
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (q *Quaternion) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(quat.Number(*q))
}

// AxisAngle returns the orientation in axis angle representation.
func (q *Quaternion) AxisAngle() *AxisAngle {
	return QuatToAxisAngle(quat.Number(*q))
}

// YawPitchRoll returns the orientation in yaw, pitch, roll representation.
func (q *Quaternion) YawPitchRoll() *YawPitchRoll {
	return QuatToYawPitchRoll(quat.Number(*q))
}

// RotationVector returns the orientation in rotation vector representation.
func (q *Quaternion) RotationVector() *RotationVector {
	return QuatToRotationVector(quat.Number(*q))
}

func (q *Quaternion) String() string {
	return fmt.Sprintf("(x: %v, y: %v, z: %v, s: %v)", q.Imag, q.Jmag, q.Kmag, q.Real)
}
