package spatialmath

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestErrorKinds(t *testing.T) {
	err := newSingularMatrixError(1e-20)
	test.That(t, IsErrorKind(err, SingularMatrix), test.ShouldBeTrue)
	test.That(t, IsErrorKind(err, NotARotationMatrix), test.ShouldBeFalse)
	test.That(t, err.Error(), test.ShouldContainSubstring, "singular matrix")

	wrapped := errors.Wrap(err, "inverting transform")
	test.That(t, IsErrorKind(wrapped, SingularMatrix), test.ShouldBeTrue)
	test.That(t, wrapped.Error(), test.ShouldStartWith, "inverting transform: singular matrix")

	test.That(t, IsErrorKind(nil, SingularMatrix), test.ShouldBeFalse)
	test.That(t, IsErrorKind(errors.New("singular matrix"), SingularMatrix), test.ShouldBeFalse)

	err = newIndexOutOfBoundsError(4, 3)
	test.That(t, err.Error(), test.ShouldEqual, "index out of bounds: index 4 outside of [0, 3]")

	err = newNotARotationMatrixError([9]float64{1, 0, 0, 0, 1, 0, 0, 0, -1})
	test.That(t, err.Error(), test.ShouldContainSubstring, "-1.000000e+00")
	test.That(t, ErrorKind(42).String(), test.ShouldEqual, "unknown error kind 42")
}
