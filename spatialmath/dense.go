package spatialmath

import (
	"gonum.org/v1/gonum/mat"
)

func checkBlock(m mat.Matrix, startRow, startCol, blockRows, blockCols int) error {
	rows, cols := m.Dims()
	if startRow < 0 || startCol < 0 || startRow+blockRows > rows || startCol+blockCols > cols {
		return newBlockOutOfBoundsError(startRow, startCol, rows, cols, blockRows, blockCols)
	}
	return nil
}

func readBlock(m mat.Matrix, startRow, startCol int) ([9]float64, error) {
	var out [9]float64
	if err := checkBlock(m, startRow, startCol, 3, 3); err != nil {
		return out, err
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[3*r+c] = m.At(startRow+r, startCol+c)
		}
	}
	return out, nil
}

func writeBlock(m mat.Mutable, startRow, startCol int, values [9]float64) error {
	if err := checkBlock(m, startRow, startCol, 3, 3); err != nil {
		return err
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(startRow+r, startCol+c, values[3*r+c])
		}
	}
	return nil
}

// SetFromDense reads the 3x3 block of m whose top left corner is (startRow, startCol), failing if the
// block does not fit or is not a rotation matrix.
func (rm *RotationMatrix) SetFromDense(m mat.Matrix, startRow, startCol int) error {
	v, err := readBlock(m, startRow, startCol)
	if err != nil {
		return err
	}
	return rm.Set(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8])
}

// ToDense writes this matrix into the 3x3 block of m whose top left corner is (startRow, startCol).
func (rm *RotationMatrix) ToDense(m mat.Mutable, startRow, startCol int) error {
	return writeBlock(m, startRow, startCol, rm.mat)
}

// Dense returns this matrix as a new gonum matrix.
func (rm *RotationMatrix) Dense() *mat.Dense {
	return mat.NewDense(3, 3, append([]float64(nil), rm.mat[:]...))
}

// SetFromDense reads the column (x, y, z, s) of m starting at (startRow, col) and normalizes it.
func (q *Quaternion) SetFromDense(m mat.Matrix, startRow, col int) error {
	if err := checkBlock(m, startRow, col, 4, 1); err != nil {
		return err
	}
	q.Set(m.At(startRow, col), m.At(startRow+1, col), m.At(startRow+2, col), m.At(startRow+3, col))
	return nil
}

// ToDense writes (x, y, z, s) into the column col of m starting at startRow.
func (q *Quaternion) ToDense(m mat.Mutable, startRow, col int) error {
	if err := checkBlock(m, startRow, col, 4, 1); err != nil {
		return err
	}
	for i, v := range [4]float64{q.Imag, q.Jmag, q.Kmag, q.Real} {
		m.Set(startRow+i, col, v)
	}
	return nil
}

// SetFromDense reads and factors the 3x3 block of m whose top left corner is (startRow, startCol).
func (lt *LinearTransform3D) SetFromDense(m mat.Matrix, startRow, startCol int) error {
	v, err := readBlock(m, startRow, startCol)
	if err != nil {
		return err
	}
	lt.SetMatrix(v)
	return nil
}

// ToDense writes M into the 3x3 block of m whose top left corner is (startRow, startCol).
func (lt *LinearTransform3D) ToDense(m mat.Mutable, startRow, startCol int) error {
	return writeBlock(m, startRow, startCol, lt.Matrix())
}

// SetFromDense reads the 3x3 block of m whose top left corner is (startRow, startCol) and factors it
// as a rotation times a scale.
func (rsm *RotationScaleMatrix) SetFromDense(m mat.Matrix, startRow, startCol int) error {
	v, err := readBlock(m, startRow, startCol)
	if err != nil {
		return err
	}
	return rsm.Set(v)
}

// ToDense writes R*diag(scale) into the 3x3 block of m whose top left corner is (startRow, startCol).
func (rsm *RotationScaleMatrix) ToDense(m mat.Mutable, startRow, startCol int) error {
	return writeBlock(m, startRow, startCol, rsm.Matrix())
}
