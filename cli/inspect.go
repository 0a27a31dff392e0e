package cli

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"go.viam.com/orientation/spatialmath"
	"go.viam.com/orientation/utils"
)

type inspectOutput struct {
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Angle float64   `json:"angle_degrees"`
	Axis  r3.Vector `json:"axis"`
	// Degrees.
	Yaw              float64  `json:"yaw"`
	Pitch            float64  `json:"pitch"`
	Roll             float64  `json:"roll"`
	GimbalLock       bool     `json:"gimbal_lock"`
	Planar           bool     `json:"planar"`
	DistanceFromPrev *float64 `json:"distance_from_previous_degrees,omitempty"`
	YawChange        *float64 `json:"yaw_change_degrees,omitempty"`
}

type inspectOutputs []inspectOutput

func (outs inspectOutputs) tableHeader() table.Row {
	return table.Row{"#", "Name", "Type", "Angle", "Axis", "Yaw", "Pitch", "Roll", "Gimbal Lock", "Planar", "Distance"}
}

func (outs inspectOutputs) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(outs))
	for i, out := range outs {
		distance := ""
		if out.DistanceFromPrev != nil {
			distance = fmt.Sprintf("%.2f", *out.DistanceFromPrev)
		}
		rows = append(rows, table.Row{
			i + 1,
			out.Name,
			out.Type,
			fmt.Sprintf("%.2f", out.Angle),
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", out.Axis.X, out.Axis.Y, out.Axis.Z),
			fmt.Sprintf("%.2f", out.Yaw),
			fmt.Sprintf("%.2f", out.Pitch),
			fmt.Sprintf("%.2f", out.Roll),
			out.GimbalLock,
			out.Planar,
			distance,
		})
	}
	return rows
}

// InspectAction describes each input orientation.
func InspectAction(c *cli.Context) error {
	logger := loggerFrom(c).Sublogger("inspect")
	inputs, err := orientationsFromFlags(
		c.Path(generalFlagFile), c.String(generalFlagType), c.String(generalFlagValue), logger)
	if err != nil {
		return err
	}
	epsilon := c.Float64(inspectFlagEpsilon)

	outputs := make(inspectOutputs, 0, len(inputs))
	var prev spatialmath.Orientation
	var prevYaw float64
	for _, input := range inputs {
		o := input.Orientation
		orientationType, err := spatialmath.OrientationTypeOf(o)
		if err != nil {
			return err
		}
		aa := o.AxisAngle()
		ypr := o.YawPitchRoll()
		q := o.Quaternion()
		out := inspectOutput{
			Name:       input.Name,
			Type:       string(orientationType),
			Angle:      utils.RadToDeg(aa.Theta),
			Axis:       r3.Vector{X: aa.RX, Y: aa.RY, Z: aa.RZ},
			Yaw:        utils.RadToDeg(ypr.Yaw),
			Pitch:      utils.RadToDeg(ypr.Pitch),
			Roll:       utils.RadToDeg(ypr.Roll),
			GimbalLock: nearGimbalLock(o),
			Planar:     q.IsOrientation2D(epsilon),
		}
		if prev != nil {
			d := utils.RadToDeg(prev.Distance(o))
			out.DistanceFromPrev = &d
			yawChange := utils.RadToDeg(utils.AngleDiff(ypr.Yaw, prevYaw))
			out.YawChange = &yawChange
		}
		if out.GimbalLock {
			logger.Warnw("gimbal lock, yaw and roll are not separable", "name", input.Name)
		}
		prev, prevYaw = o, ypr.Yaw
		outputs = append(outputs, out)
	}
	return render(c.App.Writer, c.String(generalFlagFormat), outputs)
}
