package cli

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/orientation/spatialmath"
	"go.viam.com/orientation/utils"
)

const (
	uniformScaleEpsilon = 1e-9
	singularEpsilon     = 1e-12
)

type decomposeOutput struct {
	Matrix            [9]float64              `json:"matrix"`
	PreScale          *spatialmath.Quaternion `json:"pre_scale_rotation"`
	Scale             r3.Vector               `json:"scale"`
	PostScale         *spatialmath.Quaternion `json:"post_scale_rotation"`
	Orientation       *spatialmath.Quaternion `json:"orientation"`
	Determinant       float64                 `json:"determinant"`
	IsRotationMatrix  bool                    `json:"is_rotation_matrix"`
	HasNegativeScale  bool                    `json:"has_negative_scale"`
	UniformScale      bool                    `json:"uniform_scale"`
	ReconstructionErr float64                 `json:"reconstruction_error"`
}

// DecomposeAction factors a matrix as preRotation * diag(scale) * postRotation.
func DecomposeAction(c *cli.Context) error {
	logger := loggerFrom(c).Sublogger("decompose")
	values, err := parseFloats(c.String(decomposeFlagMatrix), 9)
	if err != nil {
		return err
	}
	var m [9]float64
	copy(m[:], values)

	lt := spatialmath.NewLinearTransform3DFromMatrix(m)
	if lt.ContainsNaN() {
		return errors.New("the matrix contains NaN or infinite elements")
	}
	if c.Bool(decomposeFlagInvert) {
		if err := lt.Invert(); err != nil {
			return err
		}
		m = lt.Matrix()
	}
	scale := lt.Scale()
	logger.Debugw("decomposed", "scale", scale, "determinant", lt.Determinant())
	if math.Abs(scale.Z) <= singularEpsilon*scale.X {
		warningf(c.App.ErrWriter, "the matrix is singular")
	}

	reconstructed := lt.Matrix()
	var maxErr float64
	for i := range m {
		if d := math.Abs(reconstructed[i] - m[i]); d > maxErr {
			maxErr = d
		}
	}
	return render(c.App.Writer, c.String(generalFlagFormat), decomposeOutput{
		Matrix:            m,
		PreScale:          lt.PreScaleQuaternion(),
		Scale:             scale,
		PostScale:         lt.PostScaleQuaternion(),
		Orientation:       lt.Orientation(),
		Determinant:       lt.Determinant(),
		IsRotationMatrix:  lt.IsRotationMatrix(),
		HasNegativeScale:  scale.Z < 0,
		UniformScale:      utils.Float64AlmostEqual(scale.X, math.Abs(scale.Z), uniformScaleEpsilon),
		ReconstructionErr: maxErr,
	})
}
