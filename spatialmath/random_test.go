package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// randomQuaternion draws a unit quaternion uniformly over SO(3) (Shoemake).
func randomQuaternion(rng *rand.Rand) *Quaternion {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	a, b := math.Sqrt(1-u1), math.Sqrt(u1)
	q := &Quaternion{
		Imag: a * math.Sin(2*math.Pi*u2),
		Jmag: a * math.Cos(2*math.Pi*u2),
		Kmag: b * math.Sin(2*math.Pi*u3),
		Real: b * math.Cos(2*math.Pi*u3),
	}
	q.Normalize()
	return q
}

func randomRotationMatrix(rng *rand.Rand) *RotationMatrix {
	return randomQuaternion(rng).RotationMatrix()
}

func randomVector(rng *rand.Rand, magnitude float64) r3.Vector {
	return r3.Vector{
		X: magnitude * (2*rng.Float64() - 1),
		Y: magnitude * (2*rng.Float64() - 1),
		Z: magnitude * (2*rng.Float64() - 1),
	}
}

// randomYawPitchRoll stays clear of the pitch singularity.
func randomYawPitchRoll(rng *rand.Rand) *YawPitchRoll {
	return &YawPitchRoll{
		Yaw:   math.Pi * (2*rng.Float64() - 1),
		Pitch: 0.49 * math.Pi * (2*rng.Float64() - 1),
		Roll:  math.Pi * (2*rng.Float64() - 1),
	}
}

func matricesAlmostEqual(t *testing.T, a, b [9]float64, epsilon float64) {
	t.Helper()
	for i := range a {
		test.That(t, a[i], test.ShouldAlmostEqual, b[i], epsilon)
	}
}

func vectorsAlmostEqual(t *testing.T, a, b r3.Vector, epsilon float64) {
	t.Helper()
	test.That(t, a.X, test.ShouldAlmostEqual, b.X, epsilon)
	test.That(t, a.Y, test.ShouldAlmostEqual, b.Y, epsilon)
	test.That(t, a.Z, test.ShouldAlmostEqual, b.Z, epsilon)
}

func TestAxisAngleRoundTrip(t *testing.T) {
	data := []AxisAngle{
		{1, 1, 1, 1},
		{1, 1, 0, 0},
		{1, 0, 1, 0},
		{1, 0, 0, 1},
	}

	// Quaternion [x, y, z, w]
	// from https://www.andre-gaschler.com/rotationconverter/
	qc := [][]float64{
		{0.2767965, 0.2767965, 0.2767965, 0.8775826},
		{0.4794255, 0, 0, 0.8775826},
		{0, 0.4794255, 0, 0.8775826},
		{0, 0, 0.4794255, 0.8775826},
	}

	for idx, d := range data {
		d.Normalize()
		q := d.Quaternion()

		d2 := q.AxisAngle()
		test.That(t, d2.Theta, test.ShouldAlmostEqual, d.Theta)
		test.That(t, d2.RX, test.ShouldAlmostEqual, d.RX)
		test.That(t, d2.RY, test.ShouldAlmostEqual, d.RY)
		test.That(t, d2.RZ, test.ShouldAlmostEqual, d.RZ)

		test.That(t, q.Real, test.ShouldAlmostEqual, qc[idx][3], .00001)
		test.That(t, q.Imag, test.ShouldAlmostEqual, qc[idx][0], .00001)
		test.That(t, q.Jmag, test.ShouldAlmostEqual, qc[idx][1], .00001)
		test.That(t, q.Kmag, test.ShouldAlmostEqual, qc[idx][2], .00001)
	}
}

func TestYawPitchRollRoundTrip(t *testing.T) {
	data := []YawPitchRoll{
		{Yaw: 0, Pitch: 0, Roll: 1},
		{Yaw: 0, Pitch: 1, Roll: 1},
		{Yaw: 1, Pitch: 0, Roll: 1},
	}

	// Quaternion [x, y, z, w] of Rz(yaw)*Ry(pitch)*Rx(roll)
	qc := [][]float64{
		{0.4794255, 0, 0, 0.8775826},
		{0.4207355, 0.4207355, -0.2298488, 0.7701512},
		{0.4207355, 0.2298488, 0.4207355, 0.7701512},
	}

	for idx, d := range data {
		q := d.Quaternion()
		d2 := q.YawPitchRoll()
		test.That(t, d2.Roll, test.ShouldAlmostEqual, d.Roll)
		test.That(t, d2.Pitch, test.ShouldAlmostEqual, d.Pitch)
		test.That(t, d2.Yaw, test.ShouldAlmostEqual, d.Yaw)

		test.That(t, q.Real, test.ShouldAlmostEqual, qc[idx][3], .00001)
		test.That(t, q.Imag, test.ShouldAlmostEqual, qc[idx][0], .00001)
		test.That(t, q.Jmag, test.ShouldAlmostEqual, qc[idx][1], .00001)
		test.That(t, q.Kmag, test.ShouldAlmostEqual, qc[idx][2], .00001)
	}
}

func TestRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		ypr := randomYawPitchRoll(rng)
		rm := ypr.RotationMatrix()

		for _, o := range []Orientation{
			rm.Quaternion(),
			rm.AxisAngle(),
			rm.YawPitchRoll(),
			rm.RotationVector(),
		} {
			matricesAlmostEqual(t, o.RotationMatrix().mat, rm.mat, 1e-10)
			test.That(t, o.Quaternion().RotationMatrix().IsRotationMatrix(1e-12), test.ShouldBeTrue)
		}

		back := rm.YawPitchRoll()
		test.That(t, back.Yaw, test.ShouldAlmostEqual, ypr.Yaw, 1e-10)
		test.That(t, back.Pitch, test.ShouldAlmostEqual, ypr.Pitch, 1e-10)
		test.That(t, back.Roll, test.ShouldAlmostEqual, ypr.Roll, 1e-10)
	}
}
