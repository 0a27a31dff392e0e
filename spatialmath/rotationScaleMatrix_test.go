package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestRotationScaleMatrixScale(t *testing.T) {
	rsm := NewIdentityRotationScaleMatrix()
	test.That(t, rsm.IsIdentity(), test.ShouldBeTrue)

	err := rsm.SetScale(r3.Vector{X: 1, Y: 2, Z: -1e-17})
	test.That(t, IsErrorKind(err, NotARotationScaleMatrix), test.ShouldBeTrue)
	test.That(t, rsm.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})

	err = rsm.SetScale(r3.Vector{X: 1, Y: 2, Z: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rsm.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 0})

	err = rsm.SetScale(r3.Vector{X: math.NaN(), Y: 1, Z: 1})
	test.That(t, IsErrorKind(err, NotARotationScaleMatrix), test.ShouldBeTrue)

	_, err = NewRotationScaleMatrix(q45x, r3.Vector{X: 1, Y: 2, Z: -1e-17})
	test.That(t, IsErrorKind(err, NotARotationScaleMatrix), test.ShouldBeTrue)

	rsm.SetScaleUnsafe(r3.Vector{X: -1, Y: 1, Z: 1})
	test.That(t, rsm.Scale().X, test.ShouldEqual, -1.)

	rsm.ResetScale()
	test.That(t, rsm.IsIdentity(), test.ShouldBeTrue)
	test.That(t, rsm.AppendScale(r3.Vector{X: 2, Y: 3, Z: 4}), test.ShouldBeNil)
	test.That(t, rsm.AppendScale(r3.Vector{X: 0.5, Y: 1, Z: 0.25}), test.ShouldBeNil)
	test.That(t, rsm.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 3, Z: 1})
	err = rsm.AppendScale(r3.Vector{X: 1, Y: -1, Z: 1})
	test.That(t, IsErrorKind(err, NotARotationScaleMatrix), test.ShouldBeTrue)
	test.That(t, rsm.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 3, Z: 1})
}

func TestRotationScaleMatrixSet(t *testing.T) {
	rng := rand.New(rand.NewSource(59))
	for i := 0; i < 100; i++ {
		rm := randomRotationMatrix(rng)
		s := r3.Vector{X: 0.1 + rng.Float64(), Y: 0.1 + 2*rng.Float64(), Z: 0.1 + 3*rng.Float64()}
		rsm, err := NewRotationScaleMatrix(rm, s)
		test.That(t, err, test.ShouldBeNil)
		m := rsm.Matrix()
		matricesAlmostEqual(t, m, multiply(rm.mat, diagonal(s)), 1e-15)
		test.That(t, rsm.Determinant(), test.ShouldAlmostEqual, determinant(m), 1e-12)

		other := NewIdentityRotationScaleMatrix()
		test.That(t, other.Set(m), test.ShouldBeNil)
		vectorsAlmostEqual(t, other.Scale(), s, 1e-14)
		matricesAlmostEqual(t, other.Rotation().mat, rm.mat, 1e-14)

		v := randomVector(rng, 4)
		vectorsAlmostEqual(t, rsm.Transform(v), transformVector(m, v), 1e-13)
		back, err := rsm.InverseTransform(rsm.Transform(v))
		test.That(t, err, test.ShouldBeNil)
		vectorsAlmostEqual(t, back, v, 1e-12)

		e, err := rsm.Element(2, 1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, e, test.ShouldAlmostEqual, m[7], 1e-15)
	}

	rsm := NewIdentityRotationScaleMatrix()
	err := rsm.Set([9]float64{1, 0, 0, 0, 0, 0, 0, 0, 1})
	test.That(t, IsErrorKind(err, NotARotationScaleMatrix), test.ShouldBeTrue)
	err = rsm.Set([9]float64{1, 1, 0, 0, 1, 0, 0, 0, 1})
	test.That(t, IsErrorKind(err, NotARotationScaleMatrix), test.ShouldBeTrue)
	err = rsm.Set([9]float64{2, 0, 0, 0, 3, 0, 0, 0, -4})
	test.That(t, IsErrorKind(err, NotARotationScaleMatrix), test.ShouldBeTrue)
	test.That(t, rsm.IsIdentity(), test.ShouldBeTrue)

	_, err = rsm.Element(0, 3)
	test.That(t, IsErrorKind(err, IndexOutOfBounds), test.ShouldBeTrue)
}

func TestRotationScaleMatrixRotation(t *testing.T) {
	rsm, err := NewRotationScaleMatrix(NewQuaternion(), r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, err, test.ShouldBeNil)
	rsm.PrependRotation(aa45x)
	matricesAlmostEqual(t, rsm.Rotation().mat, rm45x.mat, 1e-14)
	test.That(t, rsm.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	rsm.SetRotation(ypr45x)
	matricesAlmostEqual(t, rsm.Matrix(), multiply(rm45x.mat, diagonal(r3.Vector{X: 1, Y: 2, Z: 3})), 1e-14)

	rsm.SetToNaN()
	test.That(t, rsm.ContainsNaN(), test.ShouldBeTrue)
}

func TestRotationScaleMatrixSingular(t *testing.T) {
	rsm, err := NewRotationScaleMatrix(q45x, r3.Vector{X: 1, Y: 2, Z: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rsm.Determinant(), test.ShouldEqual, 0.)
	_, err = rsm.InverseTransform(r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, IsErrorKind(err, SingularMatrix), test.ShouldBeTrue)

	lt := NewLinearTransform3D()
	lt.SetRotationScale(rsm)
	test.That(t, IsErrorKind(lt.Invert(), SingularMatrix), test.ShouldBeTrue)
}
