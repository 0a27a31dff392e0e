package cli

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/orientation/spatialmath"
)

// driftSamples is how many times the orthonormality error is sampled during a run.
const driftSamples = 100

type driftOutput struct {
	Iterations         int            `json:"iterations"`
	Seed               int64          `json:"seed"`
	Normalized         bool           `json:"normalized"`
	OrthonormalityErr  float64        `json:"orthonormality_error"`
	DeterminantErr     float64        `json:"determinant_error"`
	QuaternionNormErr  float64        `json:"quaternion_norm_error"`
	MatrixToQuaternion float64        `json:"matrix_quaternion_distance"`
	IsRotationMatrix   bool           `json:"is_rotation_matrix"`
	Samples            *sampleSummary `json:"orthonormality_samples,omitempty"`
}

// sampleSummary summarizes the orthonormality error sampled along the run, before any
// normalization.
type sampleSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

func summarize(samples stats.Float64Data) (*sampleSummary, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(samples)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(samples)
	if err != nil {
		return nil, err
	}
	maxErr, err := stats.Max(samples)
	if err != nil {
		return nil, err
	}
	return &sampleSummary{len(samples), mean, stdDev, median, maxErr}, nil
}

func (out driftOutput) tableHeader() table.Row {
	return table.Row{"Measure", "Value"}
}

func (out driftOutput) tableRows() []table.Row {
	rows := []table.Row{
		{"iterations", out.Iterations},
		{"seed", out.Seed},
		{"normalized", out.Normalized},
		{"orthonormality error", fmt.Sprintf("%.3e", out.OrthonormalityErr)},
		{"determinant error", fmt.Sprintf("%.3e", out.DeterminantErr)},
		{"quaternion norm error", fmt.Sprintf("%.3e", out.QuaternionNormErr)},
		{"matrix to quaternion distance", fmt.Sprintf("%.3e", out.MatrixToQuaternion)},
		{"is rotation matrix", out.IsRotationMatrix},
	}
	if s := out.Samples; s != nil {
		rows = append(rows,
			table.Row{"samples", s.Count},
			table.Row{"sampled mean", fmt.Sprintf("%.3e", s.Mean)},
			table.Row{"sampled std dev", fmt.Sprintf("%.3e", s.StdDev)},
			table.Row{"sampled median", fmt.Sprintf("%.3e", s.Median)},
			table.Row{"sampled max", fmt.Sprintf("%.3e", s.Max)},
		)
	}
	return rows
}

// DriftAction multiplies many random rotations into both a rotation matrix and a quaternion and
// reports how far each product has drifted from a proper rotation, and from the other.
func DriftAction(c *cli.Context) error {
	logger := loggerFrom(c).Sublogger("drift")
	iterations := c.Int(driftFlagIterations)
	if iterations < 0 {
		return errors.Errorf("--%s must not be negative", driftFlagIterations)
	}
	seed := c.Int64(driftFlagSeed)
	//nolint:gosec
	rng := rand.New(rand.NewSource(seed))

	rm := spatialmath.NewRotationMatrix()
	q := spatialmath.NewQuaternion()
	step := spatialmath.NewQuaternion()
	report := iterations / 10
	every := max(1, iterations/driftSamples)
	samples := make(stats.Float64Data, 0, driftSamples+1)
	for i := 0; i < iterations; i++ {
		step.Set(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		rm.Multiply(step)
		q.Multiply(step)
		if (i+1)%every == 0 {
			samples = append(samples, orthonormalityError(rm))
		}
		if report > 0 && i%report == 0 {
			logger.CDebugw(c.Context, "progress", "iteration", i, "orthonormality_error", orthonormalityError(rm))
		}
	}
	summary, err := summarize(samples)
	if err != nil {
		return err
	}
	if c.Bool(driftFlagNormalize) {
		rm.Normalize()
	}

	return render(c.App.Writer, c.String(generalFlagFormat), driftOutput{
		Iterations:         iterations,
		Seed:               seed,
		Normalized:         c.Bool(driftFlagNormalize),
		OrthonormalityErr:  orthonormalityError(rm),
		DeterminantErr:     math.Abs(rm.Determinant() - 1),
		QuaternionNormErr:  math.Abs(q.Norm() - 1),
		MatrixToQuaternion: rm.Distance(q),
		IsRotationMatrix:   rm.IsRotationMatrix(c.Float64(driftFlagEpsilon)),
		Samples:            summary,
	})
}

// orthonormalityError returns the largest element of |R^T*R - I|.
func orthonormalityError(rm *spatialmath.RotationMatrix) float64 {
	var maxErr float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := rm.Col(i).Dot(rm.Col(j))
			if i == j {
				d--
			}
			maxErr = math.Max(maxErr, math.Abs(d))
		}
	}
	return maxErr
}
