package cli

import (
	"math"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/orientation/spatialmath"
)

// gimbalWarningEpsilon is how close to +-pi/2 a pitch must be for the yaw/roll split to be reported
// as arbitrary.
const gimbalWarningEpsilon = 1e-6

var allOrientationTypes = []spatialmath.OrientationType{
	spatialmath.QuaternionType,
	spatialmath.RotationMatrixType,
	spatialmath.AxisAngleType,
	spatialmath.YawPitchRollType,
	spatialmath.RotationVectorType,
}

type convertOutput struct {
	Name      string                   `json:"name"`
	Converted []map[string]interface{} `json:"converted"`
}

// ConvertAction prints each input orientation in the requested representation, or in all of them.
func ConvertAction(c *cli.Context) error {
	logger := loggerFrom(c).Sublogger("convert")
	inputs, err := orientationsFromFlags(
		c.Path(generalFlagFile), c.String(generalFlagType), c.String(generalFlagValue), logger)
	if err != nil {
		return err
	}
	targets := allOrientationTypes
	if to := c.String(convertFlagTo); to != "" {
		targets = []spatialmath.OrientationType{spatialmath.OrientationType(to)}
	}

	outputs := make([]convertOutput, 0, len(inputs))
	for _, input := range inputs {
		out := convertOutput{Name: input.Name}
		for _, target := range targets {
			converted, err := spatialmath.Convert(input.Orientation, target)
			if err != nil {
				return err
			}
			if target == spatialmath.YawPitchRollType && nearGimbalLock(input.Orientation) {
				warningf(c.App.ErrWriter, "%s is at gimbal lock; its roll is reported as 0", input.Name)
			}
			m, err := spatialmath.OrientationMap(converted)
			if err != nil {
				return err
			}
			out.Converted = append(out.Converted, m)
		}
		logger.Debugw("converted", "name", input.Name, "targets", len(targets))
		outputs = append(outputs, out)
	}
	return render(c.App.Writer, c.String(generalFlagFormat), outputs)
}

func nearGimbalLock(o spatialmath.Orientation) bool {
	pitch := spatialmath.PitchFromQuat(o.Quaternion().Number())
	return math.Abs(math.Abs(pitch)-math.Pi/2) < gimbalWarningEpsilon
}

type composeMode string

const (
	modeAppend             = composeMode("append")
	modeAppendInvertOther  = composeMode("append-invert-other")
	modeAppendInvertThis   = composeMode("append-invert-this")
	modeAppendInvertBoth   = composeMode("append-invert-both")
	modePrepend            = composeMode("prepend")
	modePrependInvertOther = composeMode("prepend-invert-other")
	modePrependInvertThis  = composeMode("prepend-invert-this")
	modePrependInvertBoth  = composeMode("prepend-invert-both")
)

const composeModeUsage = "append, append-invert-other, append-invert-this, append-invert-both, " +
	"prepend, prepend-invert-other, prepend-invert-this or prepend-invert-both"

var composeModes = map[composeMode]func(dst spatialmath.MutableOrientation, other spatialmath.Orientation){
	modeAppend:             spatialmath.MutableOrientation.Append,
	modeAppendInvertOther:  spatialmath.MutableOrientation.AppendInvertOther,
	modeAppendInvertThis:   spatialmath.MutableOrientation.AppendInvertThis,
	modeAppendInvertBoth:   spatialmath.MutableOrientation.AppendInvertBoth,
	modePrepend:            spatialmath.MutableOrientation.Prepend,
	modePrependInvertOther: spatialmath.MutableOrientation.PrependInvertOther,
	modePrependInvertThis:  spatialmath.MutableOrientation.PrependInvertThis,
	modePrependInvertBoth:  spatialmath.MutableOrientation.PrependInvertBoth,
}

type composeOutput struct {
	Count  int                    `json:"count"`
	Mode   composeMode            `json:"mode"`
	Result map[string]interface{} `json:"result"`
	Angle  float64                `json:"angle"`
}

// ComposeAction folds the input orientations, in order, into the first one with the chosen member
// of the append/prepend family.
func ComposeAction(c *cli.Context) error {
	logger := loggerFrom(c).Sublogger("compose")
	mode := composeMode(c.String(composeFlagMode))
	fold, ok := composeModes[mode]
	if !ok {
		return errors.Errorf("unknown compose mode %q, expected %s", mode, composeModeUsage)
	}
	inputs, err := orientationsFromFlags(
		c.Path(generalFlagFile), c.String(generalFlagType), c.String(generalFlagValue), logger)
	if err != nil {
		return err
	}

	result, err := spatialmath.Convert(inputs[0].Orientation, spatialmath.OrientationType(c.String(convertFlagTo)))
	if err != nil {
		return err
	}
	for _, input := range inputs[1:] {
		fold(result, input.Orientation)
		logger.Debugw("composed", "name", input.Name, "mode", mode, "result", result)
	}
	m, err := spatialmath.OrientationMap(result)
	if err != nil {
		return err
	}
	return render(c.App.Writer, c.String(generalFlagFormat), composeOutput{
		Count:  len(inputs),
		Mode:   mode,
		Result: m,
		Angle:  result.AxisAngle().Theta,
	})
}
