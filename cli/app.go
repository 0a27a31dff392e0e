// Package cli contains the orientation command line tool.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/orientation/logging"
	"go.viam.com/orientation/spatialmath"
)

// CLI flags.
const (
	generalFlagDebug    = "debug"
	generalFlagLogLevel = "log-level"
	generalFlagFormat   = "format"
	generalFlagLogFile  = "log-file"
	generalFlagFile     = "file"
	generalFlagType     = "type"
	generalFlagValue    = "value"

	convertFlagTo = "to"

	composeFlagMode = "mode"

	decomposeFlagMatrix = "matrix"
	decomposeFlagInvert = "invert"

	driftFlagIterations = "iterations"
	driftFlagSeed       = "seed"
	driftFlagNormalize  = "normalize"
	driftFlagEpsilon    = "epsilon"

	inspectFlagEpsilon = "epsilon"
)

const loggerMetadataKey = "logger"

var orientationTypeUsage = fmt.Sprintf("one of %s, %s, %s, %s or %s",
	spatialmath.QuaternionType, spatialmath.RotationMatrixType, spatialmath.AxisAngleType,
	spatialmath.YawPitchRollType, spatialmath.RotationVectorType)

func orientationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:    generalFlagFile,
			Aliases: []string{"f"},
			Usage:   "read orientations from a YAML or JSON `FILE`",
		},
		&cli.StringFlag{
			Name:  generalFlagType,
			Usage: "type of an inline orientation: " + orientationTypeUsage,
		},
		&cli.StringFlag{
			Name:  generalFlagValue,
			Usage: "JSON value of an inline orientation, e.g. '{\"x\":0,\"y\":0,\"z\":1,\"s\":1}'",
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter to errOut. Logs go
// to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "orientation",
		Usage:           "convert, compose and check 3D orientations",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Metadata:        map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  generalFlagLogLevel,
				Value: "info",
				Usage: "log level: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  generalFlagFormat,
				Value: formatJSON,
				Usage: "output format: json, yaml or table",
			},
			&cli.PathFlag{
				Name:  generalFlagLogFile,
				Usage: "also write logs to a size rotated `FILE`",
			},
		},
		Before: setupLogger,
		After: func(c *cli.Context) error {
			return loggerFrom(c).Sync()
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "convert orientations to another representation",
				UsageText: "orientation convert (--file FILE | --type TYPE [--value JSON]) [--to TYPE]",
				Flags: append(orientationFlags(), &cli.StringFlag{
					Name:  convertFlagTo,
					Usage: "target representation, " + orientationTypeUsage + "; all of them when unset",
				}),
				Action: ConvertAction,
			},
			{
				Name:      "compose",
				Usage:     "compose the orientations of a file in order",
				UsageText: "orientation compose --file FILE [--mode MODE] [--to TYPE]",
				Flags: append(orientationFlags(),
					&cli.StringFlag{
						Name:  composeFlagMode,
						Value: string(modeAppend),
						Usage: "how each orientation is folded into the running result: " + composeModeUsage,
					},
					&cli.StringFlag{
						Name:  convertFlagTo,
						Value: string(spatialmath.QuaternionType),
						Usage: "representation of the result, " + orientationTypeUsage,
					},
				),
				Action: ComposeAction,
			},
			{
				Name:      "decompose",
				Usage:     "factor a 3x3 matrix into rotation, scale and rotation",
				UsageText: "orientation decompose --matrix 'm00,m01,m02,m10,m11,m12,m20,m21,m22' [--invert]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     decomposeFlagMatrix,
						Aliases:  []string{"m"},
						Required: true,
						Usage:    "nine row major elements, comma or space separated",
					},
					&cli.BoolFlag{
						Name:  decomposeFlagInvert,
						Usage: "invert the matrix before factoring it",
					},
				},
				Action: DecomposeAction,
			},
			{
				Name:  "drift",
				Usage: "measure the numerical drift of repeated rotation products",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  driftFlagIterations,
						Value: 100000,
						Usage: "number of random rotations to multiply together",
					},
					&cli.Int64Flag{
						Name:  driftFlagSeed,
						Value: 1,
						Usage: "seed of the random rotations",
					},
					&cli.BoolFlag{
						Name:  driftFlagNormalize,
						Usage: "normalize the accumulated matrix before reporting",
					},
					&cli.Float64Flag{
						Name:  driftFlagEpsilon,
						Value: 1e-7,
						Usage: "tolerance for the rotation matrix check",
					},
				},
				Action: DriftAction,
			},
			{
				Name:      "inspect",
				Usage:     "describe each orientation: angle, axis, yaw/pitch/roll and planarity",
				UsageText: "orientation inspect (--file FILE | --type TYPE [--value JSON])",
				Flags: append(orientationFlags(), &cli.Float64Flag{
					Name:  inspectFlagEpsilon,
					Value: 1e-9,
					Usage: "tolerance for the planar and gimbal lock checks",
				}),
				Action: InspectAction,
			},
		},
	}
}

// setupLogger attaches a logger writing to the app's ErrWriter.
func setupLogger(c *cli.Context) error {
	level, err := logging.LevelFromString(c.String(generalFlagLogLevel))
	if err != nil {
		return err
	}
	if c.Bool(generalFlagDebug) {
		level = logging.DEBUG
	}
	logger := logging.NewBlankLogger("orientation")
	logger.SetLevel(level)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if path := c.Path(generalFlagLogFile); path != "" {
		logger.AddAppender(logging.NewFileAppender(logging.DefaultFileConfig(path)))
	}
	c.App.Metadata[loggerMetadataKey] = logger
	return nil
}

func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerMetadataKey].(logging.Logger); ok {
		return logger
	}
	return logging.Global()
}
