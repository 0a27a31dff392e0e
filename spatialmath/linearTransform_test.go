package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func diagonal(s r3.Vector) [9]float64 {
	return [9]float64{s.X, 0, 0, 0, s.Y, 0, 0, 0, s.Z}
}

func randomMatrix(rng *rand.Rand) [9]float64 {
	var m [9]float64
	for i := range m {
		m[i] = 2*rng.Float64() - 1
	}
	return m
}

func checkCanonical(t *testing.T, lt *LinearTransform3D) {
	t.Helper()
	s := lt.Scale()
	test.That(t, s.X, test.ShouldBeGreaterThanOrEqualTo, math.Abs(s.Y))
	test.That(t, s.Y, test.ShouldBeGreaterThanOrEqualTo, math.Abs(s.Z))
	test.That(t, lt.PreScaleQuaternion().IsUnitary(1e-14), test.ShouldBeTrue)
	test.That(t, lt.PostScaleQuaternion().IsUnitary(1e-14), test.ShouldBeTrue)
}

func TestLinearTransform3DIdentity(t *testing.T) {
	lt := NewLinearTransform3D()
	test.That(t, lt.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, lt.PreScaleQuaternion(), test.ShouldResemble, NewQuaternion())
	test.That(t, lt.PostScaleQuaternion(), test.ShouldResemble, NewQuaternion())
	test.That(t, lt.IsIdentity(), test.ShouldBeTrue)
	test.That(t, lt.IsRotationMatrix(), test.ShouldBeTrue)
	test.That(t, lt.Determinant(), test.ShouldEqual, 1.)
	test.That(t, lt.ContainsNaN(), test.ShouldBeFalse)

	v, err := lt.Element(1, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 1.)
	_, err = lt.Element(3, 0)
	test.That(t, IsErrorKind(err, IndexOutOfBounds), test.ShouldBeTrue)
	_, err = lt.Element(0, -1)
	test.That(t, IsErrorKind(err, IndexOutOfBounds), test.ShouldBeTrue)

	lt.SetToNaN()
	test.That(t, lt.ContainsNaN(), test.ShouldBeTrue)
	lt.SetIdentity()
	test.That(t, lt.IsIdentity(), test.ShouldBeTrue)
	lt.SetToZero()
	test.That(t, lt.Matrix(), test.ShouldResemble, [9]float64{})
}

func TestLinearTransform3DSetMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for i := 0; i < 500; i++ {
		m := randomMatrix(rng)
		lt := NewLinearTransform3DFromMatrix(m)
		test.That(t, lt.ContainsNaN(), test.ShouldBeFalse)
		checkCanonical(t, lt)
		matricesAlmostEqual(t, lt.Matrix(), m, 1e-9)
		test.That(t, lt.Determinant(), test.ShouldAlmostEqual, determinant(m), 1e-9)

		v := randomVector(rng, 3)
		vectorsAlmostEqual(t, lt.Transform(v), transformVector(m, v), 1e-9)
		if math.Abs(lt.Determinant()) > 1e-2 {
			vectorsAlmostEqual(t, lt.Transform(lt.InverseTransform(v)), v, 1e-7)
		}
	}
}

func TestLinearTransform3DSpecialMatrices(t *testing.T) {
	t.Run("reflection", func(t *testing.T) {
		lt := NewLinearTransform3DFromMatrix(diagonal(r3.Vector{X: 1, Y: 2, Z: -3}))
		s := lt.Scale()
		test.That(t, s.X, test.ShouldAlmostEqual, 3, 1e-14)
		test.That(t, s.Y, test.ShouldAlmostEqual, 2, 1e-14)
		test.That(t, s.Z, test.ShouldAlmostEqual, -1, 1e-14)
		test.That(t, lt.Determinant(), test.ShouldAlmostEqual, -6, 1e-13)
		matricesAlmostEqual(t, lt.Matrix(), diagonal(r3.Vector{X: 1, Y: 2, Z: -3}), 1e-14)
		test.That(t, lt.IsRotationMatrix(), test.ShouldBeFalse)
	})
	t.Run("uniform scale", func(t *testing.T) {
		rm := (&YawPitchRoll{Yaw: 0.2, Pitch: -0.4, Roll: 1}).RotationMatrix()
		m := multiply(rm.mat, diagonal(r3.Vector{X: 2, Y: 2, Z: 2}))
		lt := NewLinearTransform3DFromMatrix(m)
		vectorsAlmostEqual(t, lt.Scale(), r3.Vector{X: 2, Y: 2, Z: 2}, 1e-14)
		test.That(t, lt.GeometricallyEquals(rm, 1e-13), test.ShouldBeTrue)
		matricesAlmostEqual(t, lt.Matrix(), m, 1e-14)
	})
	t.Run("rank one", func(t *testing.T) {
		m := [9]float64{1, 2, 3, 2, 4, 6, -1, -2, -3}
		lt := NewLinearTransform3DFromMatrix(m)
		test.That(t, lt.ContainsNaN(), test.ShouldBeFalse)
		test.That(t, lt.Scale().Y, test.ShouldAlmostEqual, 0, 1e-7)
		test.That(t, lt.Scale().Z, test.ShouldAlmostEqual, 0, 1e-7)
		matricesAlmostEqual(t, lt.Matrix(), m, 1e-7)
	})
	t.Run("zero", func(t *testing.T) {
		lt := NewLinearTransform3DFromMatrix([9]float64{})
		test.That(t, lt.Scale(), test.ShouldResemble, r3.Vector{})
		test.That(t, lt.ContainsNaN(), test.ShouldBeFalse)
	})
	t.Run("not finite", func(t *testing.T) {
		lt := NewLinearTransform3DFromMatrix([9]float64{1, 0, 0, 0, math.Inf(1), 0, 0, 0, 1})
		test.That(t, lt.ContainsNaN(), test.ShouldBeTrue)
		lt = NewLinearTransform3DFromMatrix([9]float64{math.NaN(), 0, 0, 0, 1, 0, 0, 0, 1})
		test.That(t, lt.ContainsNaN(), test.ShouldBeTrue)
	})
}

func TestLinearTransform3DDecompositionConsistency(t *testing.T) {
	r1 := &YawPitchRoll{Yaw: 0.7, Pitch: 0.2, Roll: -1.1}
	r2 := &AxisAngle{Theta: 2.3, RX: 0.48, RY: 0.6, RZ: 0.64}
	expected := r1.Quaternion()
	expected.Append(r2)

	for _, s := range []r3.Vector{{X: 1, Y: 1, Z: 1}, {X: 2, Y: 3, Z: 4}, {X: 1e-3, Y: 5, Z: 1e3}, {X: 0.5, Y: 0.5, Z: 7}} {
		lt := NewLinearTransform3D()
		lt.SetRotation(r1)
		lt.AppendScale(s)
		lt.AppendRotation(r2)
		checkCanonical(t, lt)
		test.That(t, lt.GeometricallyEquals(expected, 1e-12), test.ShouldBeTrue)
		test.That(t, lt.Orientation().IsUnitary(1e-15), test.ShouldBeTrue)

		m := multiply(multiply(r1.RotationMatrix().mat, diagonal(s)), r2.RotationMatrix().mat)
		test.That(t, lt.AlmostEqual(NewLinearTransform3DFromMatrix(m), 1e-9*s.Norm()), test.ShouldBeTrue)
	}
}

func TestLinearTransform3DOrientationStability(t *testing.T) {
	rng := rand.New(rand.NewSource(37))
	for i := 0; i < 100; i++ {
		r1 := randomRotationMatrix(rng)
		r2 := randomRotationMatrix(rng)
		s := r3.Vector{X: 3, Y: 2, Z: 1}
		base := NewLinearTransform3DFromMatrix(multiply(multiply(r1.mat, diagonal(s)), r2.mat))

		// the rotation part is the polar factor r1*r2
		polar := r1.RotationMatrix()
		polar.Append(r2)
		test.That(t, base.GeometricallyEquals(polar, 1e-10), test.ShouldBeTrue)

		// a tiny change of the matrix moves the orientation by a comparable amount
		m := base.Matrix()
		for j := range m {
			m[j] += 1e-9 * (2*rng.Float64() - 1)
		}
		perturbed := NewLinearTransform3DFromMatrix(m)
		test.That(t, perturbed.Distance(base.Orientation()), test.ShouldBeLessThan, 1e-7)

		// so does a change that lifts a repeated singular value
		flat := NewLinearTransform3DFromMatrix(multiply(multiply(r1.mat, diagonal(r3.Vector{X: 2, Y: 2, Z: 1})), r2.mat))
		lifted := NewLinearTransform3DFromMatrix(multiply(multiply(r1.mat, diagonal(r3.Vector{X: 2, Y: 2 + 1e-9, Z: 1})), r2.mat))
		test.That(t, flat.GeometricallyEquals(polar, 1e-9), test.ShouldBeTrue)
		test.That(t, lifted.Distance(flat.Orientation()), test.ShouldBeLessThan, 1e-7)
	}
}

func TestLinearTransform3DScale(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	for i := 0; i < 100; i++ {
		m := randomMatrix(rng)
		s := r3.Vector{X: 0.5 + rng.Float64(), Y: 0.5 + rng.Float64(), Z: 0.5 + rng.Float64()}

		appended := NewLinearTransform3DFromMatrix(m)
		appended.AppendScale(s)
		checkCanonical(t, appended)
		matricesAlmostEqual(t, appended.Matrix(), multiply(m, diagonal(s)), 1e-8)

		prepended := NewLinearTransform3DFromMatrix(m)
		prepended.PrependScale(s)
		checkCanonical(t, prepended)
		matricesAlmostEqual(t, prepended.Matrix(), multiply(diagonal(s), m), 1e-8)

		uniform := NewLinearTransform3DFromMatrix(m)
		uniform.AppendScale(r3.Vector{X: -2, Y: -2, Z: -2})
		matricesAlmostEqual(t, uniform.Matrix(), multiply(m, diagonal(r3.Vector{X: -2, Y: -2, Z: -2})), 1e-8)
		uniform.PrependScale(r3.Vector{X: 3, Y: 3, Z: 3})
		matricesAlmostEqual(t, uniform.Matrix(), multiply(m, diagonal(r3.Vector{X: -6, Y: -6, Z: -6})), 1e-8)
		checkCanonical(t, uniform)
		test.That(t, math.Abs(uniform.Determinant()+216*determinant(m)), test.ShouldBeLessThan, 1e-7)
	}

	// a rotation that maps axes onto axes keeps the scale on the diagonal
	lt := NewLinearTransform3D()
	lt.SetRotation(&AxisAngle{Theta: math.Pi / 2, RZ: 1})
	lt.PrependScale(r3.Vector{X: 1, Y: 2, Z: 3})
	lt.AppendScale(r3.Vector{X: 5, Y: 1, Z: 1})
	vectorsAlmostEqual(t, lt.Scale(), r3.Vector{X: 10, Y: 3, Z: 1}, 1e-14)
	expected := multiply(multiply(diagonal(r3.Vector{X: 1, Y: 2, Z: 3}), AxisAngleToRotationMatrix(&AxisAngle{Theta: math.Pi / 2, RZ: 1}).mat),
		diagonal(r3.Vector{X: 5, Y: 1, Z: 1}))
	matricesAlmostEqual(t, lt.Matrix(), expected, 1e-14)
}

func TestLinearTransform3DResetScale(t *testing.T) {
	r1 := &YawPitchRoll{Yaw: -0.3, Pitch: 0.9, Roll: 0.1}
	r2 := &RotationVector{X: 0.2, Y: -0.4, Z: 1.2}
	lt := NewLinearTransform3D()
	lt.SetRotation(r1)
	lt.AppendScale(r3.Vector{X: 4, Y: 0.25, Z: 2})
	lt.AppendRotation(r2)
	orientation := lt.Orientation()

	lt.ResetScale()
	test.That(t, lt.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, lt.PostScaleQuaternion(), test.ShouldResemble, NewQuaternion())
	test.That(t, lt.GeometricallyEquals(orientation, 1e-15), test.ShouldBeTrue)
	test.That(t, lt.IsRotationMatrix(), test.ShouldBeTrue)
	matricesAlmostEqual(t, lt.Matrix(), lt.RotationMatrix().mat, 1e-15)
}

func TestLinearTransform3DRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	m := randomMatrix(rng)
	q := randomQuaternion(rng)

	lt := NewLinearTransform3DFromMatrix(m)
	lt.AppendRotation(q)
	matricesAlmostEqual(t, lt.Matrix(), multiply(m, q.RotationMatrix().mat), 1e-9)
	scale := lt.Scale()

	lt = NewLinearTransform3DFromMatrix(m)
	lt.PrependRotation(q)
	matricesAlmostEqual(t, lt.Matrix(), multiply(q.RotationMatrix().mat, m), 1e-9)
	test.That(t, lt.Scale(), test.ShouldResemble, scale)

	fromRS := NewLinearTransform3DFromRotationScale(q, r3.Vector{X: 1, Y: 3, Z: 2})
	checkCanonical(t, fromRS)
	matricesAlmostEqual(t, fromRS.Matrix(), multiply(q.RotationMatrix().mat, diagonal(r3.Vector{X: 1, Y: 3, Z: 2})), 1e-14)

	rsm, err := NewRotationScaleMatrix(q, r3.Vector{X: 1, Y: 3, Z: 2})
	test.That(t, err, test.ShouldBeNil)
	lt.SetRotationScale(rsm)
	test.That(t, lt.AlmostEqual(fromRS, 1e-13), test.ShouldBeTrue)
}

func TestLinearTransform3DMultiply(t *testing.T) {
	rng := rand.New(rand.NewSource(47))
	for i := 0; i < 100; i++ {
		a, b := randomMatrix(rng), randomMatrix(rng)
		lt := NewLinearTransform3DFromMatrix(a)
		lt.Multiply(NewLinearTransform3DFromMatrix(b))
		checkCanonical(t, lt)
		matricesAlmostEqual(t, lt.Matrix(), multiply(a, b), 1e-8)

		q := randomQuaternion(rng)
		uniform := NewLinearTransform3DFromRotationScale(q, r3.Vector{X: 2, Y: 2, Z: 2})
		lt = NewLinearTransform3DFromMatrix(a)
		lt.Multiply(uniform)
		matricesAlmostEqual(t, lt.Matrix(), multiply(a, uniform.Matrix()), 1e-8)

		lt = NewLinearTransform3DFromRotationScale(q, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
		expected := multiply(lt.Matrix(), b)
		lt.Multiply(NewLinearTransform3DFromMatrix(b))
		matricesAlmostEqual(t, lt.Matrix(), expected, 1e-8)
	}
}

func TestLinearTransform3DInvert(t *testing.T) {
	rng := rand.New(rand.NewSource(53))
	for i := 0; i < 100; i++ {
		r1 := randomRotationMatrix(rng)
		r2 := randomRotationMatrix(rng)
		s := r3.Vector{X: 4, Y: -0.5, Z: 1.5}
		m := multiply(multiply(r1.mat, diagonal(s)), r2.mat)
		lt := NewLinearTransform3DFromMatrix(m)
		inverse := *lt
		test.That(t, inverse.Invert(), test.ShouldBeNil)
		checkCanonical(t, &inverse)
		test.That(t, inverse.Determinant(), test.ShouldAlmostEqual, 1/lt.Determinant(), 1e-12)
		matricesAlmostEqual(t, multiply(m, inverse.Matrix()), identityMatrix, 1e-12)

		v := randomVector(rng, 2)
		vectorsAlmostEqual(t, inverse.Transform(v), lt.InverseTransform(v), 1e-12)
	}

	lt := NewLinearTransform3D()
	lt.SetToZero()
	err := lt.Invert()
	test.That(t, IsErrorKind(err, SingularMatrix), test.ShouldBeTrue)

	lt = NewLinearTransform3DFromRotationScale(NewQuaternion(), r3.Vector{X: 1, Y: 1, Z: 0})
	err = lt.Invert()
	test.That(t, IsErrorKind(err, SingularMatrix), test.ShouldBeTrue)
	test.That(t, lt.Scale(), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 0})
}
