package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mat3 returns this matrix as a mathgl matrix, which is column major.
func (rm *RotationMatrix) Mat3() mgl64.Mat3 {
	return mgl64.Mat3(transpose(rm.mat))
}

// NewRotationMatrixFromMat3 creates a rotation matrix from a column major mathgl matrix, failing if it
// is not a rotation.
func NewRotationMatrixFromMat3(m mgl64.Mat3) (*RotationMatrix, error) {
	t := transpose([9]float64(m))
	rm := &RotationMatrix{}
	if err := rm.Set(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8]); err != nil {
		return nil, err
	}
	return rm, nil
}

// MglQuat returns this quaternion as a mathgl quaternion.
func (q *Quaternion) MglQuat() mgl64.Quat {
	return mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
}

// NewQuaternionFromMgl creates a unit quaternion from a mathgl quaternion.
func NewQuaternionFromMgl(q mgl64.Quat) *Quaternion {
	return NewQuaternionFromComponents(q.V[0], q.V[1], q.V[2], q.W)
}
