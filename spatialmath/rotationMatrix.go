package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Tolerance used by the validated setters of RotationMatrix.
const defaultRotationEpsilon = 1e-7

// Below this deviation from orthonormality Normalize is a no-op.
const normalizedEpsilon = 1e-14

// Tolerance used by IsIdentity.
const identityEpsilon = 1e-10

var identityMatrix = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

// RotationMatrix is a 3x3 matrix in row major order. m[3*i+j] refers to the element in the
// ith row and jth column. A RotationMatrix obtained from this package satisfies M^T*M = I and
// det(M) = +1 unless it was written through SetUnsafe.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix returns the identity rotation matrix.
func NewRotationMatrix() *RotationMatrix {
	return &RotationMatrix{identityMatrix}
}

// NewRotationMatrixFromSlice creates a rotation matrix from a row major slice of 9 elements, and
// fails if they do not describe a rotation.
func NewRotationMatrixFromSlice(m []float64) (*RotationMatrix, error) {
	rm := NewRotationMatrix()
	if err := rm.SetFromArray(m, 0); err != nil {
		return nil, err
	}
	return rm, nil
}

// NewRotationMatrixFromOrientation returns the rotation matrix of any orientation.
func NewRotationMatrixFromOrientation(o Orientation) *RotationMatrix {
	return o.RotationMatrix()
}

// Set writes all nine elements after checking that they describe a rotation matrix.
func (rm *RotationMatrix) Set(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) error {
	candidate := [9]float64{m00, m01, m02, m10, m11, m12, m20, m21, m22}
	if !isRotationMatrix(candidate, defaultRotationEpsilon) {
		return newNotARotationMatrixError(candidate)
	}
	rm.mat = candidate
	return nil
}

// SetUnsafe writes all nine elements without any check. The caller is responsible for providing a rotation.
func (rm *RotationMatrix) SetUnsafe(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) {
	rm.mat = [9]float64{m00, m01, m02, m10, m11, m12, m20, m21, m22}
}

// SetOrientation sets this matrix to the rotation described by o.
func (rm *RotationMatrix) SetOrientation(o Orientation) {
	if other, ok := o.(*RotationMatrix); ok {
		rm.mat = other.mat
		return
	}
	rm.mat = quatToMatrix(quatOf(o))
}

// SetToZero sets this matrix to identity, i.e. zero rotation.
func (rm *RotationMatrix) SetToZero() {
	rm.mat = identityMatrix
}

// SetToNaN poisons every element.
func (rm *RotationMatrix) SetToNaN() {
	for i := range rm.mat {
		rm.mat[i] = math.NaN()
	}
}

// ContainsNaN returns true if any element is NaN.
func (rm *RotationMatrix) ContainsNaN() bool {
	for _, v := range rm.mat {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// At returns the float corresponding to the element at the specified location.
func (rm *RotationMatrix) At(row, column int) float64 {
	return rm.mat[3*row+column]
}

// Element returns the element at the specified location, failing if either index is outside of [0, 2].
func (rm *RotationMatrix) Element(row, column int) (float64, error) {
	if row < 0 || row > 2 {
		return 0, newIndexOutOfBoundsError(row, 2)
	}
	if column < 0 || column > 2 {
		return 0, newIndexOutOfBoundsError(column, 2)
	}
	return rm.mat[3*row+column], nil
}

// Row returns the a 3 element vector corresponding to the specified row.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[3*row], Y: rm.mat[3*row+1], Z: rm.mat[3*row+2]}
}

// Col returns the a 3 element vector corresponding to the specified column.
func (rm *RotationMatrix) Col(column int) r3.Vector {
	return r3.Vector{X: rm.mat[column], Y: rm.mat[column+3], Z: rm.mat[column+6]}
}

// Determinant returns the determinant of the matrix.
func (rm *RotationMatrix) Determinant() float64 {
	return determinant(rm.mat)
}

func determinant(m [9]float64) float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
}

// IsRotationMatrix returns true if M^T*M is the identity and det(M) is +1, both within epsilon.
func (rm *RotationMatrix) IsRotationMatrix(epsilon float64) bool {
	return isRotationMatrix(rm.mat, epsilon)
}

// CheckIfRotationMatrix returns a NotARotationMatrix error if IsRotationMatrix(epsilon) is false.
func (rm *RotationMatrix) CheckIfRotationMatrix(epsilon float64) error {
	if !rm.IsRotationMatrix(epsilon) {
		return newNotARotationMatrixError(rm.mat)
	}
	return nil
}

func isRotationMatrix(m [9]float64, epsilon float64) bool {
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			dot := m[i]*m[j] + m[i+3]*m[j+3] + m[i+6]*m[j+6]
			expected := 0.
			if i == j {
				expected = 1
			}
			if !(math.Abs(dot-expected) <= epsilon) {
				return false
			}
		}
	}
	return math.Abs(determinant(m)-1) <= epsilon
}

// IsIdentity returns true if every element is within 1e-10 of the identity matrix.
func (rm *RotationMatrix) IsIdentity() bool {
	for i, v := range rm.mat {
		if !(math.Abs(v-identityMatrix[i]) <= identityEpsilon) {
			return false
		}
	}
	return true
}

// IsMatrix2D returns true if this matrix only rotates about the Z axis, within epsilon.
func (rm *RotationMatrix) IsMatrix2D(epsilon float64) bool {
	m := rm.mat
	return math.Abs(m[2]) <= epsilon && math.Abs(m[5]) <= epsilon &&
		math.Abs(m[6]) <= epsilon && math.Abs(m[7]) <= epsilon && math.Abs(m[8]-1) <= epsilon
}

// CheckIfMatrix2D returns a NotAMatrix2D error if IsMatrix2D(epsilon) is false.
func (rm *RotationMatrix) CheckIfMatrix2D(epsilon float64) error {
	if !rm.IsMatrix2D(epsilon) {
		return newNotAMatrix2DError(rm.mat)
	}
	return nil
}

// Normalize corrects the drift of this matrix away from orthonormality. The first two columns are
// made orthogonal by splitting their error symmetrically between them, the third is rebuilt as
// their cross product, and all three are rescaled to unit length. The correction is repeated
// while the first two columns are measurably non-orthogonal.
// A matrix that is already orthonormal within normalizedEpsilon is left untouched.
func (rm *RotationMatrix) Normalize() {
	if rm.ContainsNaN() || isRotationMatrix(rm.mat, normalizedEpsilon) {
		return
	}
	x := rm.Col(0).Normalize()
	y := rm.Col(1).Normalize()
	for i := 0; i < 8; i++ {
		e := x.Dot(y)
		if math.Abs(e) < 1e-16 {
			break
		}
		x, y = x.Sub(y.Mul(e/2)).Normalize(), y.Sub(x.Mul(e/2)).Normalize()
	}
	z := x.Cross(y).Normalize()
	// rebuild y from z and x so that the basis is right handed and orthogonal to rounding
	y = z.Cross(x).Normalize()
	rm.setColumns(x, y, z)
}

func (rm *RotationMatrix) setColumns(x, y, z r3.Vector) {
	rm.mat = [9]float64{
		x.X, y.X, z.X,
		x.Y, y.Y, z.Y,
		x.Z, y.Z, z.Z,
	}
}

// Transpose transposes this matrix in place.
func (rm *RotationMatrix) Transpose() {
	rm.mat = transpose(rm.mat)
}

// Invert inverts this rotation in place; for a rotation matrix this is the transpose.
func (rm *RotationMatrix) Invert() {
	rm.Transpose()
}

func transpose(m [9]float64) [9]float64 {
	return [9]float64{m[0], m[3], m[6], m[1], m[4], m[7], m[2], m[5], m[8]}
}

// multiply returns a*b. Each element is accumulated with fused multiply-adds so that long chains of
// products drift away from SO(3) as slowly as possible.
func multiply(a, b [9]float64) [9]float64 {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[3*i+j] = math.FMA(a[3*i], b[j], math.FMA(a[3*i+1], b[3+j], a[3*i+2]*b[6+j]))
		}
	}
	return out
}

func (rm *RotationMatrix) otherMatrix(o Orientation) [9]float64 {
	if other, ok := o.(*RotationMatrix); ok {
		return other.mat
	}
	return quatToMatrix(quatOf(o))
}

// Multiply sets this matrix to this*other. It is the same as Append.
func (rm *RotationMatrix) Multiply(other Orientation) {
	rm.Append(other)
}

// Append sets this matrix to this*other.
func (rm *RotationMatrix) Append(other Orientation) {
	rm.mat = multiply(rm.mat, rm.otherMatrix(other))
}

// AppendInvertOther sets this matrix to this*other^-1.
func (rm *RotationMatrix) AppendInvertOther(other Orientation) {
	rm.mat = multiply(rm.mat, transpose(rm.otherMatrix(other)))
}

// AppendInvertThis sets this matrix to this^-1*other.
func (rm *RotationMatrix) AppendInvertThis(other Orientation) {
	rm.mat = multiply(transpose(rm.mat), rm.otherMatrix(other))
}

// AppendInvertBoth sets this matrix to this^-1*other^-1.
func (rm *RotationMatrix) AppendInvertBoth(other Orientation) {
	rm.mat = multiply(transpose(rm.mat), transpose(rm.otherMatrix(other)))
}

// Prepend sets this matrix to other*this.
func (rm *RotationMatrix) Prepend(other Orientation) {
	rm.mat = multiply(rm.otherMatrix(other), rm.mat)
}

// PrependInvertOther sets this matrix to other^-1*this.
func (rm *RotationMatrix) PrependInvertOther(other Orientation) {
	rm.mat = multiply(transpose(rm.otherMatrix(other)), rm.mat)
}

// PrependInvertThis sets this matrix to other*this^-1.
func (rm *RotationMatrix) PrependInvertThis(other Orientation) {
	rm.mat = multiply(rm.otherMatrix(other), transpose(rm.mat))
}

// PrependInvertBoth sets this matrix to other^-1*this^-1.
func (rm *RotationMatrix) PrependInvertBoth(other Orientation) {
	rm.mat = multiply(transpose(rm.otherMatrix(other)), transpose(rm.mat))
}

// SetToYawMatrix sets this matrix to a rotation of yaw radians about the Z axis.
func (rm *RotationMatrix) SetToYawMatrix(yaw float64) {
	s, c := math.Sincos(yaw)
	rm.mat = [9]float64{c, -s, 0, s, c, 0, 0, 0, 1}
}

// SetToPitchMatrix sets this matrix to a rotation of pitch radians about the Y axis.
func (rm *RotationMatrix) SetToPitchMatrix(pitch float64) {
	s, c := math.Sincos(pitch)
	rm.mat = [9]float64{c, 0, s, 0, 1, 0, -s, 0, c}
}

// SetToRollMatrix sets this matrix to a rotation of roll radians about the X axis.
func (rm *RotationMatrix) SetToRollMatrix(roll float64) {
	s, c := math.Sincos(roll)
	rm.mat = [9]float64{1, 0, 0, 0, c, -s, 0, s, c}
}

// AppendYawRotation sets this matrix to this*Rz(yaw).
func (rm *RotationMatrix) AppendYawRotation(yaw float64) {
	var r RotationMatrix
	r.SetToYawMatrix(yaw)
	rm.mat = multiply(rm.mat, r.mat)
}

// AppendPitchRotation sets this matrix to this*Ry(pitch).
func (rm *RotationMatrix) AppendPitchRotation(pitch float64) {
	var r RotationMatrix
	r.SetToPitchMatrix(pitch)
	rm.mat = multiply(rm.mat, r.mat)
}

// AppendRollRotation sets this matrix to this*Rx(roll).
func (rm *RotationMatrix) AppendRollRotation(roll float64) {
	var r RotationMatrix
	r.SetToRollMatrix(roll)
	rm.mat = multiply(rm.mat, r.mat)
}

// PrependYawRotation sets this matrix to Rz(yaw)*this.
func (rm *RotationMatrix) PrependYawRotation(yaw float64) {
	var r RotationMatrix
	r.SetToYawMatrix(yaw)
	rm.mat = multiply(r.mat, rm.mat)
}

// PrependPitchRotation sets this matrix to Ry(pitch)*this.
func (rm *RotationMatrix) PrependPitchRotation(pitch float64) {
	var r RotationMatrix
	r.SetToPitchMatrix(pitch)
	rm.mat = multiply(r.mat, rm.mat)
}

// PrependRollRotation sets this matrix to Rx(roll)*this.
func (rm *RotationMatrix) PrependRollRotation(roll float64) {
	var r RotationMatrix
	r.SetToRollMatrix(roll)
	rm.mat = multiply(r.mat, rm.mat)
}

// Transform returns M*v.
func (rm *RotationMatrix) Transform(v r3.Vector) r3.Vector {
	return transformVector(rm.mat, v)
}

// InverseTransform returns M^T*v.
func (rm *RotationMatrix) InverseTransform(v r3.Vector) r3.Vector {
	return transformVector(transpose(rm.mat), v)
}

func transformVector(m [9]float64, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Transform2D rotates a point of the XY-plane. It fails if this matrix is not a rotation about Z within epsilon.
func (rm *RotationMatrix) Transform2D(p r2.Point, epsilon float64) (r2.Point, error) {
	if err := rm.CheckIfMatrix2D(epsilon); err != nil {
		return r2.Point{}, err
	}
	return r2.Point{X: rm.mat[0]*p.X + rm.mat[1]*p.Y, Y: rm.mat[3]*p.X + rm.mat[4]*p.Y}, nil
}

// Distance returns the angle of the rotation taking this matrix to other, in [0, pi].
func (rm *RotationMatrix) Distance(other Orientation) float64 {
	diff := multiply(transpose(rm.mat), rm.otherMatrix(other))
	return rotationAngle(matrixToQuat(diff))
}

// GeometricallyEquals returns true if the angle between this matrix and other is at most epsilon.
func (rm *RotationMatrix) GeometricallyEquals(other Orientation, epsilon float64) bool {
	return rm.Distance(other) <= epsilon
}

// Yaw returns the yaw of this rotation.
func (rm *RotationMatrix) Yaw() float64 {
	return RotationMatrixToYawPitchRoll(rm).Yaw
}

// Pitch returns the pitch of this rotation.
func (rm *RotationMatrix) Pitch() float64 {
	return PitchFromRotationMatrix(rm)
}

// Roll returns the roll of this rotation.
func (rm *RotationMatrix) Roll() float64 {
	return RotationMatrixToYawPitchRoll(rm).Roll
}

// Quaternion returns orientation in quaternion representation.
func (rm *RotationMatrix) Quaternion() *Quaternion {
	q := Quaternion(matrixToQuat(rm.mat))
	return &q
}

// RotationMatrix returns a copy of this rotation matrix.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return &RotationMatrix{rm.mat}
}

// AxisAngle returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngle() *AxisAngle {
	return RotationMatrixToAxisAngle(rm)
}

// YawPitchRoll returns the orientation in yaw, pitch, roll representation.
func (rm *RotationMatrix) YawPitchRoll() *YawPitchRoll {
	return RotationMatrixToYawPitchRoll(rm)
}

// RotationVector returns the orientation in rotation vector representation.
func (rm *RotationMatrix) RotationVector() *RotationVector {
	return RotationMatrixToRotationVector(rm)
}

// String returns the matrix as three rows.
func (rm *RotationMatrix) String() string {
	return fmt.Sprintf("%v\n%v\n%v", rm.mat[0:3], rm.mat[3:6], rm.mat[6:9])
}
