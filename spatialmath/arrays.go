package spatialmath

// Flat array layouts. Matrices are row major (index = 3*row + column); quaternions are (x, y, z, s);
// axis angles are (x, y, z, theta); rotation vectors are (x, y, z) and yaw pitch roll (yaw, pitch, roll).
// Every accessor takes the offset of the first element in a larger buffer.

type float interface {
	~float32 | ~float64
}

func readArray[F float](a []F, offset, n int) ([]float64, error) {
	if offset < 0 || offset+n > len(a) {
		return nil, newIndexOutOfBoundsError(offset+n-1, len(a)-1)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(a[offset+i])
	}
	return out, nil
}

func writeArray[F float](a []F, offset int, values ...float64) error {
	if offset < 0 || offset+len(values) > len(a) {
		return newIndexOutOfBoundsError(offset+len(values)-1, len(a)-1)
	}
	for i, v := range values {
		a[offset+i] = F(v)
	}
	return nil
}

// SetFromArray reads (x, y, z, s) starting at offset and normalizes the result.
func (q *Quaternion) SetFromArray(a []float64, offset int) error {
	v, err := readArray(a, offset, 4)
	if err != nil {
		return err
	}
	q.Set(v[0], v[1], v[2], v[3])
	return nil
}

// SetFromFloat32Array reads (x, y, z, s) starting at offset and normalizes the result.
func (q *Quaternion) SetFromFloat32Array(a []float32, offset int) error {
	v, err := readArray(a, offset, 4)
	if err != nil {
		return err
	}
	q.Set(v[0], v[1], v[2], v[3])
	return nil
}

// ToArray writes (x, y, z, s) starting at offset.
func (q *Quaternion) ToArray(a []float64, offset int) error {
	return writeArray(a, offset, q.Imag, q.Jmag, q.Kmag, q.Real)
}

// ToFloat32Array writes (x, y, z, s) starting at offset.
func (q *Quaternion) ToFloat32Array(a []float32, offset int) error {
	return writeArray(a, offset, q.Imag, q.Jmag, q.Kmag, q.Real)
}

// SetFromArray reads nine row major elements starting at offset, failing if they do not describe a
// rotation matrix or if the buffer is too short.
func (rm *RotationMatrix) SetFromArray(a []float64, offset int) error {
	v, err := readArray(a, offset, 9)
	if err != nil {
		return err
	}
	return rm.Set(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8])
}

// ToArray writes the nine row major elements starting at offset.
func (rm *RotationMatrix) ToArray(a []float64, offset int) error {
	return writeArray(a, offset, rm.mat[:]...)
}

// SetFromArray reads (x, y, z, theta) starting at offset and normalizes the axis.
func (aa *AxisAngle) SetFromArray(a []float64, offset int) error {
	v, err := readArray(a, offset, 4)
	if err != nil {
		return err
	}
	aa.Set(v[3], v[0], v[1], v[2])
	return nil
}

// ToArray writes (x, y, z, theta) starting at offset.
func (aa *AxisAngle) ToArray(a []float64, offset int) error {
	return writeArray(a, offset, aa.RX, aa.RY, aa.RZ, aa.Theta)
}

// SetFromArray reads (yaw, pitch, roll) starting at offset.
func (ypr *YawPitchRoll) SetFromArray(a []float64, offset int) error {
	v, err := readArray(a, offset, 3)
	if err != nil {
		return err
	}
	ypr.Set(v[0], v[1], v[2])
	return nil
}

// SetFromFloat32Array reads (yaw, pitch, roll) starting at offset.
func (ypr *YawPitchRoll) SetFromFloat32Array(a []float32, offset int) error {
	v, err := readArray(a, offset, 3)
	if err != nil {
		return err
	}
	ypr.Set(v[0], v[1], v[2])
	return nil
}

// ToArray writes (yaw, pitch, roll) starting at offset.
func (ypr *YawPitchRoll) ToArray(a []float64, offset int) error {
	return writeArray(a, offset, ypr.Yaw, ypr.Pitch, ypr.Roll)
}

// ToFloat32Array writes (yaw, pitch, roll) starting at offset.
func (ypr *YawPitchRoll) ToFloat32Array(a []float32, offset int) error {
	return writeArray(a, offset, ypr.Yaw, ypr.Pitch, ypr.Roll)
}

// SetFromArray reads (x, y, z) starting at offset.
func (rv *RotationVector) SetFromArray(a []float64, offset int) error {
	v, err := readArray(a, offset, 3)
	if err != nil {
		return err
	}
	rv.Set(v[0], v[1], v[2])
	return nil
}

// SetFromFloat32Array reads (x, y, z) starting at offset.
func (rv *RotationVector) SetFromFloat32Array(a []float32, offset int) error {
	v, err := readArray(a, offset, 3)
	if err != nil {
		return err
	}
	rv.Set(v[0], v[1], v[2])
	return nil
}

// ToArray writes (x, y, z) starting at offset.
func (rv *RotationVector) ToArray(a []float64, offset int) error {
	return writeArray(a, offset, rv.X, rv.Y, rv.Z)
}

// ToFloat32Array writes (x, y, z) starting at offset.
func (rv *RotationVector) ToFloat32Array(a []float32, offset int) error {
	return writeArray(a, offset, rv.X, rv.Y, rv.Z)
}

// SetFromArray reads nine row major elements starting at offset and factors them.
func (lt *LinearTransform3D) SetFromArray(a []float64, offset int) error {
	v, err := readArray(a, offset, 9)
	if err != nil {
		return err
	}
	lt.SetMatrix([9]float64(v))
	return nil
}

// ToArray writes the nine row major elements of M starting at offset.
func (lt *LinearTransform3D) ToArray(a []float64, offset int) error {
	m := lt.Matrix()
	return writeArray(a, offset, m[:]...)
}
