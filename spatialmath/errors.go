package spatialmath

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the distinguishable ways a validated mutation can fail.
type ErrorKind int

const (
	// NotARotationMatrix is returned when a write would break orthonormality or det = +1.
	NotARotationMatrix ErrorKind = iota
	// NotARotationScaleMatrix is returned for a negative scale or a non-rotation base matrix.
	NotARotationScaleMatrix
	// NotAMatrix2D is returned when a planar operation is requested on a matrix that rotates out of the XY-plane.
	NotAMatrix2D
	// NotAnOrientation2D is returned when a planar operation is requested on a quaternion that rotates out of the XY-plane.
	NotAnOrientation2D
	// SingularMatrix is returned when inverting a matrix whose determinant is ~0.
	SingularMatrix
	// IndexOutOfBounds is returned by element accessors called outside of the valid range.
	IndexOutOfBounds
)

func (k ErrorKind) String() string {
	switch k {
	case NotARotationMatrix:
		return "not a rotation matrix"
	case NotARotationScaleMatrix:
		return "not a rotation scale matrix"
	case NotAMatrix2D:
		return "not a 2D matrix"
	case NotAnOrientation2D:
		return "not a 2D orientation"
	case SingularMatrix:
		return "singular matrix"
	case IndexOutOfBounds:
		return "index out of bounds"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is the error type returned by every validated entry point of this package.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.msg
}

// IsErrorKind returns true if err, or any error it wraps, is an *Error of the given kind.
func IsErrorKind(err error, kind ErrorKind) bool {
	var target *Error
	if !errors.As(err, &target) {
		return false
	}
	return target.Kind == kind
}

func newError(kind ErrorKind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, msg: fmt.Sprintf(format, args...)})
}

func newNotARotationMatrixError(m [9]float64) error {
	return newError(NotARotationMatrix, "\n%s", formatMatrix(m))
}

func newNotARotationScaleMatrixError(reason string) error {
	return newError(NotARotationScaleMatrix, "%s", reason)
}

func newNotAMatrix2DError(m [9]float64) error {
	return newError(NotAMatrix2D, "\n%s", formatMatrix(m))
}

func newNotAnOrientation2DError(q *Quaternion) error {
	return newError(NotAnOrientation2D, "%v", q)
}

func newSingularMatrixError(det float64) error {
	return newError(SingularMatrix, "determinant %g", det)
}

func newIndexOutOfBoundsError(index, bound int) error {
	return newError(IndexOutOfBounds, "index %d outside of [0, %d]", index, bound)
}

func newBlockOutOfBoundsError(startRow, startCol, rows, cols, blockRows, blockCols int) error {
	return newError(IndexOutOfBounds, "a %dx%d block at (%d, %d) does not fit in a %dx%d matrix",
		blockRows, blockCols, startRow, startCol, rows, cols)
}

func formatMatrix(m [9]float64) string {
	return fmt.Sprintf("[% .6e % .6e % .6e]\n[% .6e % .6e % .6e]\n[% .6e % .6e % .6e]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}
