package spatialmath

import (
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/orientation/utils"
)

const (
	// Below this determinant a transform is reported as singular.
	singularEpsilon = 1e-12
	// Relative spread of the eigenvalues of M^T*M below which the scale is treated as uniform.
	uniformScaleEpsilon = 1e-12
	// Tolerance on the elements of a signed permutation matrix.
	permutationEpsilon = 1e-12
)

// LinearTransform3D is an invertible 3x3 linear map M stored as the factorization
//
//	M = R(preQ) * diag(scale) * R(postQ)
//
// where preQ and postQ are unit quaternions and |scale.X| >= |scale.Y| >= |scale.Z| >= 0. Only the
// minor component scale.Z may be negative, which is how a reflection (det(M) < 0) is carried while
// both rotations stay proper.
type LinearTransform3D struct {
	preQ  Quaternion
	scale r3.Vector
	postQ Quaternion
}

// NewLinearTransform3D returns the identity transform.
func NewLinearTransform3D() *LinearTransform3D {
	lt := &LinearTransform3D{}
	lt.SetIdentity()
	return lt
}

// NewLinearTransform3DFromMatrix returns the factorization of the row major matrix m.
func NewLinearTransform3DFromMatrix(m [9]float64) *LinearTransform3D {
	lt := &LinearTransform3D{}
	lt.SetMatrix(m)
	return lt
}

// NewLinearTransform3DFromRotationScale returns R(o)*diag(scale).
func NewLinearTransform3DFromRotationScale(o Orientation, scale r3.Vector) *LinearTransform3D {
	lt := &LinearTransform3D{preQ: *o.Quaternion(), scale: scale, postQ: Quaternion{Real: 1}}
	lt.preQ.Normalize()
	lt.canonicalize()
	return lt
}

// SetIdentity sets this transform to the identity.
func (lt *LinearTransform3D) SetIdentity() {
	lt.preQ = Quaternion{Real: 1}
	lt.postQ = Quaternion{Real: 1}
	lt.scale = r3.Vector{X: 1, Y: 1, Z: 1}
}

// SetToZero sets this transform to the zero matrix: identity rotations and a zero scale.
func (lt *LinearTransform3D) SetToZero() {
	lt.preQ = Quaternion{Real: 1}
	lt.postQ = Quaternion{Real: 1}
	lt.scale = r3.Vector{}
}

// SetToNaN poisons every component.
func (lt *LinearTransform3D) SetToNaN() {
	lt.preQ.SetToNaN()
	lt.postQ.SetToNaN()
	nan := math.NaN()
	lt.scale = r3.Vector{X: nan, Y: nan, Z: nan}
}

// ContainsNaN returns true if any component is NaN.
func (lt *LinearTransform3D) ContainsNaN() bool {
	return lt.preQ.ContainsNaN() || lt.postQ.ContainsNaN() ||
		utils.ContainsNaN(lt.scale.X, lt.scale.Y, lt.scale.Z)
}

// SetRotation sets this transform to the pure rotation o.
func (lt *LinearTransform3D) SetRotation(o Orientation) {
	lt.preQ = *o.Quaternion()
	lt.preQ.Normalize()
	lt.postQ = Quaternion{Real: 1}
	lt.scale = r3.Vector{X: 1, Y: 1, Z: 1}
}

// SetRotationScale sets this transform to the matrix of a RotationScaleMatrix.
func (lt *LinearTransform3D) SetRotationScale(rsm *RotationScaleMatrix) {
	lt.preQ = *rsm.rotation.Quaternion()
	lt.postQ = Quaternion{Real: 1}
	lt.scale = rsm.scale
	lt.canonicalize()
}

// SetMatrix sets this transform to the row major matrix m and recomputes the factorization from the
// eigen-decomposition of m^T*m.
func (lt *LinearTransform3D) SetMatrix(m [9]float64) {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			lt.SetToNaN()
			return
		}
	}
	if !lt.decompose(m) {
		lt.SetToNaN()
	}
}

// decompose computes M = U*diag(s)*V^T. V holds the eigenvectors of M^T*M sorted by decreasing
// eigenvalue and is made proper; the columns of U are the images M*v_i orthonormalized in order,
// with u2 = u0 x u1 so that U is proper too and any reflection ends up in the sign of s2.
func (lt *LinearTransform3D) decompose(m [9]float64) bool {
	var ata [9]float64
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			v := m[i]*m[j] + m[3+i]*m[3+j] + m[6+i]*m[6+j]
			ata[3*i+j], ata[3*j+i] = v, v
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(mat.NewSymDense(3, ata[:]), true); !ok {
		return false
	}
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// values are ascending; v[0] is the direction of largest stretch
	var v [3]r3.Vector
	if values[2]-values[0] <= uniformScaleEpsilon*values[2] {
		v = [3]r3.Vector{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	} else {
		for i := 0; i < 3; i++ {
			k := 2 - i
			v[i] = r3.Vector{X: vecs.At(0, k), Y: vecs.At(1, k), Z: vecs.At(2, k)}.Normalize()
		}
		if v[0].Cross(v[1]).Dot(v[2]) < 0 {
			v[2] = v[2].Mul(-1)
		}
	}

	w := [3]r3.Vector{
		transformVector(m, v[0]),
		transformVector(m, v[1]),
		transformVector(m, v[2]),
	}
	s0 := w[0].Norm()
	if s0 == 0 {
		lt.SetToZero()
		return true
	}
	u0 := w[0].Mul(1 / s0)
	u1 := w[1].Sub(u0.Mul(u0.Dot(w[1])))
	if u1.Norm() <= 1e-15*s0 {
		u1 = u0.Ortho()
	} else {
		u1 = u1.Normalize()
	}
	u2 := u0.Cross(u1)

	lt.preQ = Quaternion(matrixToQuat(columnsMatrix(u0, u1, u2)))
	lt.postQ = Quaternion(matrixToQuat(rowsMatrix(v[0], v[1], v[2])))
	lt.scale = r3.Vector{X: s0, Y: u1.Dot(w[1]), Z: u2.Dot(w[2])}
	lt.canonicalize()
	return true
}

func columnsMatrix(c0, c1, c2 r3.Vector) [9]float64 {
	return [9]float64{
		c0.X, c1.X, c2.X,
		c0.Y, c1.Y, c2.Y,
		c0.Z, c1.Z, c2.Z,
	}
}

func rowsMatrix(r0, r1, r2 r3.Vector) [9]float64 {
	return [9]float64{
		r0.X, r0.Y, r0.Z,
		r1.X, r1.Y, r1.Z,
		r2.X, r2.Y, r2.Z,
	}
}

// canonicalize restores |s0| >= |s1| >= |s2| with s0, s1 >= 0 without changing M. Sorting permutes
// the columns of R(preQ) and the rows of R(postQ) together; an odd permutation is repaired by
// negating the last column and row. A negative s0 or s1 is moved onto s2 by negating two columns of
// R(preQ), which is a rotation by pi and keeps it proper.
func (lt *LinearTransform3D) canonicalize() {
	s := [3]float64{lt.scale.X, lt.scale.Y, lt.scale.Z}
	order := []int{0, 1, 2}
	slices.SortStableFunc(order, func(a, b int) int {
		switch sa, sb := math.Abs(s[a]), math.Abs(s[b]); {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})
	sorted := order[0] == 0 && order[1] == 1
	if sorted && s[0] >= 0 && s[1] >= 0 {
		return
	}

	u := quatToMatrix(quat.Number(lt.preQ))
	v := quatToMatrix(quat.Number(lt.postQ))
	var pu, pv [9]float64
	var ps [3]float64
	for i, k := range order {
		ps[i] = s[k]
		for r := 0; r < 3; r++ {
			pu[3*r+i] = u[3*r+k]
			pv[3*i+r] = v[3*k+r]
		}
	}
	if permutationIsOdd(order) {
		negateColumn(&pu, 2)
		negateRow(&pv, 2)
	}
	for i := 0; i < 2; i++ {
		if ps[i] < 0 {
			ps[i], ps[2] = -ps[i], -ps[2]
			negateColumn(&pu, i)
			negateColumn(&pu, 2)
		}
	}

	lt.preQ = Quaternion(matrixToQuat(pu))
	lt.postQ = Quaternion(matrixToQuat(pv))
	lt.scale = r3.Vector{X: ps[0], Y: ps[1], Z: ps[2]}
}

func permutationIsOdd(order []int) bool {
	inversions := 0
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if order[i] > order[j] {
				inversions++
			}
		}
	}
	return inversions%2 == 1
}

func negateColumn(m *[9]float64, c int) {
	for r := 0; r < 3; r++ {
		m[3*r+c] = -m[3*r+c]
	}
}

func negateRow(m *[9]float64, r int) {
	for c := 0; c < 3; c++ {
		m[3*r+c] = -m[3*r+c]
	}
}

// signedPermutation returns, for a matrix whose rows (or columns, with byColumn) are each a signed unit
// basis vector, the index of the basis vector of every row (column).
func signedPermutation(m [9]float64, byColumn bool) ([3]int, bool) {
	var perm [3]int
	for i := 0; i < 3; i++ {
		found := -1
		for j := 0; j < 3; j++ {
			e := m[3*i+j]
			if byColumn {
				e = m[3*j+i]
			}
			switch {
			case math.Abs(math.Abs(e)-1) <= permutationEpsilon:
				if found >= 0 {
					return perm, false
				}
				found = j
			case math.Abs(e) > permutationEpsilon:
				return perm, false
			}
		}
		if found < 0 {
			return perm, false
		}
		perm[i] = found
	}
	return perm, true
}

// AppendRotation sets M to M*R(o). The rotation is composed into the post-scale quaternion; the scale
// is untouched.
func (lt *LinearTransform3D) AppendRotation(o Orientation) {
	lt.postQ.Append(o)
	lt.postQ.Normalize()
}

// PrependRotation sets M to R(o)*M. The rotation is composed into the pre-scale quaternion.
func (lt *LinearTransform3D) PrependRotation(o Orientation) {
	lt.preQ.Prepend(o)
	lt.preQ.Normalize()
}

// AppendScale sets M to M*diag(s). When R(postQ) maps the coordinate axes onto each other the scale
// is folded into the diagonal directly; otherwise the factorization is recomputed.
func (lt *LinearTransform3D) AppendScale(s r3.Vector) {
	if s.X == s.Y && s.Y == s.Z {
		lt.scale = lt.scale.Mul(s.X)
		lt.canonicalize()
		return
	}
	if perm, ok := signedPermutation(quatToMatrix(quat.Number(lt.postQ)), false); ok {
		a := [3]float64{s.X, s.Y, s.Z}
		lt.scale = r3.Vector{X: lt.scale.X * a[perm[0]], Y: lt.scale.Y * a[perm[1]], Z: lt.scale.Z * a[perm[2]]}
		lt.canonicalize()
		return
	}
	m := lt.Matrix()
	for r := 0; r < 3; r++ {
		m[3*r] *= s.X
		m[3*r+1] *= s.Y
		m[3*r+2] *= s.Z
	}
	lt.SetMatrix(m)
}

// PrependScale sets M to diag(s)*M.
func (lt *LinearTransform3D) PrependScale(s r3.Vector) {
	if s.X == s.Y && s.Y == s.Z {
		lt.scale = lt.scale.Mul(s.X)
		lt.canonicalize()
		return
	}
	if perm, ok := signedPermutation(quatToMatrix(quat.Number(lt.preQ)), true); ok {
		a := [3]float64{s.X, s.Y, s.Z}
		lt.scale = r3.Vector{X: lt.scale.X * a[perm[0]], Y: lt.scale.Y * a[perm[1]], Z: lt.scale.Z * a[perm[2]]}
		lt.canonicalize()
		return
	}
	m := lt.Matrix()
	for c := 0; c < 3; c++ {
		m[c] *= s.X
		m[3+c] *= s.Y
		m[6+c] *= s.Z
	}
	lt.SetMatrix(m)
}

// ResetScale drops the scale: the combined rotation preQ*postQ becomes the pre-scale quaternion, the
// post-scale quaternion becomes identity and the scale (1, 1, 1).
func (lt *LinearTransform3D) ResetScale() {
	lt.preQ = *lt.Orientation()
	lt.postQ = Quaternion{Real: 1}
	lt.scale = r3.Vector{X: 1, Y: 1, Z: 1}
}

// Multiply sets M to M*other.
func (lt *LinearTransform3D) Multiply(other *LinearTransform3D) {
	if s := other.scale; s.X == s.Y && s.Y == s.Z {
		lt.AppendRotation(other.Orientation())
		lt.AppendScale(s)
		return
	}
	if s := lt.scale; s.X == s.Y && s.Y == s.Z {
		q := lt.Orientation()
		*lt = *other
		lt.PrependRotation(q)
		lt.PrependScale(s)
		return
	}
	lt.SetMatrix(multiply(lt.Matrix(), other.Matrix()))
}

// Invert inverts this transform in place, failing with a SingularMatrix error when det(M) is ~0.
func (lt *LinearTransform3D) Invert() error {
	if det := lt.Determinant(); math.Abs(det) < singularEpsilon {
		return newSingularMatrixError(det)
	}
	pre, post := lt.postQ, lt.preQ
	pre.Conjugate()
	post.Conjugate()
	lt.preQ, lt.postQ = pre, post
	lt.scale = r3.Vector{X: 1 / lt.scale.X, Y: 1 / lt.scale.Y, Z: 1 / lt.scale.Z}
	lt.canonicalize()
	return nil
}

// Determinant returns det(M), the product of the scale components.
func (lt *LinearTransform3D) Determinant() float64 {
	return lt.scale.X * lt.scale.Y * lt.scale.Z
}

// Matrix returns M in row major order.
func (lt *LinearTransform3D) Matrix() [9]float64 {
	u := quatToMatrix(quat.Number(lt.preQ))
	v := quatToMatrix(quat.Number(lt.postQ))
	s := [3]float64{lt.scale.X, lt.scale.Y, lt.scale.Z}
	var m [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				m[3*i+j] += u[3*i+k] * s[k] * v[3*k+j]
			}
		}
	}
	return m
}

// Element returns M[row][column].
func (lt *LinearTransform3D) Element(row, column int) (float64, error) {
	if row < 0 || row > 2 {
		return 0, newIndexOutOfBoundsError(row, 2)
	}
	if column < 0 || column > 2 {
		return 0, newIndexOutOfBoundsError(column, 2)
	}
	return lt.Matrix()[3*row+column], nil
}

// Scale returns the diagonal of the factorization.
func (lt *LinearTransform3D) Scale() r3.Vector {
	return lt.scale
}

// PreScaleQuaternion returns a copy of the rotation applied after the scale.
func (lt *LinearTransform3D) PreScaleQuaternion() *Quaternion {
	q := lt.preQ
	return &q
}

// PostScaleQuaternion returns a copy of the rotation applied before the scale.
func (lt *LinearTransform3D) PostScaleQuaternion() *Quaternion {
	q := lt.postQ
	return &q
}

// Orientation returns the rotation part of M, preQ*postQ, ignoring the scale. For det(M) > 0 this is the
// rotation of the polar decomposition of M, which does not depend on how the factorization was reached.
func (lt *LinearTransform3D) Orientation() *Quaternion {
	q := Quaternion(quat.Mul(quat.Number(lt.preQ), quat.Number(lt.postQ)))
	q.Normalize()
	return &q
}

// AsQuaternion is the same as Orientation.
func (lt *LinearTransform3D) AsQuaternion() *Quaternion {
	return lt.Orientation()
}

// IsIdentity returns true if M is within 1e-10 of the identity.
func (lt *LinearTransform3D) IsIdentity() bool {
	m := lt.Matrix()
	for i, v := range m {
		if !(math.Abs(v-identityMatrix[i]) <= identityEpsilon) {
			return false
		}
	}
	return true
}

// IsRotationMatrix returns true if M is a rotation matrix.
func (lt *LinearTransform3D) IsRotationMatrix() bool {
	return isRotationMatrix(lt.Matrix(), defaultRotationEpsilon)
}

// AlmostEqual returns true if every element of the two matrices is within epsilon.
func (lt *LinearTransform3D) AlmostEqual(other *LinearTransform3D, epsilon float64) bool {
	a, b := lt.Matrix(), other.Matrix()
	for i := range a {
		if !(math.Abs(a[i]-b[i]) <= epsilon) {
			return false
		}
	}
	return true
}

// Transform returns M*v.
func (lt *LinearTransform3D) Transform(v r3.Vector) r3.Vector {
	w := lt.postQ.Transform(v)
	w = r3.Vector{X: w.X * lt.scale.X, Y: w.Y * lt.scale.Y, Z: w.Z * lt.scale.Z}
	return lt.preQ.Transform(w)
}

// InverseTransform returns M^-1*v. The result is not finite when M is singular.
func (lt *LinearTransform3D) InverseTransform(v r3.Vector) r3.Vector {
	w := lt.preQ.InverseTransform(v)
	w = r3.Vector{X: w.X / lt.scale.X, Y: w.Y / lt.scale.Y, Z: w.Z / lt.scale.Z}
	return lt.postQ.InverseTransform(w)
}

// Quaternion returns the rotation part as a quaternion.
func (lt *LinearTransform3D) Quaternion() *Quaternion {
	return lt.Orientation()
}

// RotationMatrix returns the rotation part as a rotation matrix.
func (lt *LinearTransform3D) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(quat.Number(*lt.Orientation()))
}

// AxisAngle returns the rotation part as an axis angle.
func (lt *LinearTransform3D) AxisAngle() *AxisAngle {
	return QuatToAxisAngle(quat.Number(*lt.Orientation()))
}

// YawPitchRoll returns the rotation part as yaw, pitch and roll.
func (lt *LinearTransform3D) YawPitchRoll() *YawPitchRoll {
	return QuatToYawPitchRoll(quat.Number(*lt.Orientation()))
}

// RotationVector returns the rotation part as a rotation vector.
func (lt *LinearTransform3D) RotationVector() *RotationVector {
	return QuatToRotationVector(quat.Number(*lt.Orientation()))
}

// Distance returns the angle between the rotation part of this transform and other.
func (lt *LinearTransform3D) Distance(other Orientation) float64 {
	return lt.Orientation().Distance(other)
}

// GeometricallyEquals compares the rotation part of this transform with other.
func (lt *LinearTransform3D) GeometricallyEquals(other Orientation, epsilon float64) bool {
	return lt.Orientation().GeometricallyEquals(other, epsilon)
}

func (lt *LinearTransform3D) String() string {
	return fmt.Sprintf("pre: %v, scale: %v, post: %v", &lt.preQ, lt.scale, &lt.postQ)
}
