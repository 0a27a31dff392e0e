package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"go.viam.com/orientation/logging"
	"go.viam.com/orientation/spatialmath"
)

// orientationFile is the layout of an orientation file. JSON is a subset of YAML so both parse.
//
//	log_level: debug
//	orientations:
//	  - name: mount
//	    type: yaw_pitch_roll
//	    value: {yaw: 1.5707963, pitch: 0, roll: 0}
type orientationFile struct {
	LogLevel     *logging.Level    `yaml:"log_level"`
	Orientations []fileOrientation `yaml:"orientations"`
}

type fileOrientation struct {
	Name  string                      `yaml:"name"`
	Type  spatialmath.OrientationType `yaml:"type"`
	Value interface{}                 `yaml:"value"`
}

// namedOrientation is a parsed entry of an orientation file.
type namedOrientation struct {
	Name        string
	Orientation spatialmath.MutableOrientation
}

// readOrientationFile loads and parses every orientation in the file at path.
func readOrientationFile(path string) (*orientationFile, []namedOrientation, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return decodeOrientations(f)
}

func decodeOrientations(r io.Reader) (*orientationFile, []namedOrientation, error) {
	var file orientationFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, errors.Wrap(err, "cannot decode orientation file")
	}
	parsed := make([]namedOrientation, 0, len(file.Orientations))
	for i, entry := range file.Orientations {
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("orientation_%d", i)
		}
		o, err := entry.parse()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "orientation %q", name)
		}
		parsed = append(parsed, namedOrientation{name, o})
	}
	return &file, parsed, nil
}

// parse hands the YAML value to the JSON orientation parser so both file formats share one set of
// field names.
func (fo fileOrientation) parse() (spatialmath.MutableOrientation, error) {
	ro := spatialmath.RawOrientation{Type: fo.Type}
	if fo.Value != nil {
		value, err := json.Marshal(fo.Value)
		if err != nil {
			return nil, err
		}
		ro.Value = value
	}
	return spatialmath.ParseOrientation(ro)
}

// parseInlineOrientation parses an orientation given by its type and JSON value on the command line.
func parseInlineOrientation(orientationType, value string) (spatialmath.MutableOrientation, error) {
	ro := spatialmath.RawOrientation{Type: spatialmath.OrientationType(orientationType)}
	if value != "" {
		ro.Value = json.RawMessage(value)
	}
	return spatialmath.ParseOrientation(ro)
}

// orientationsFromFlags returns the orientations named by --file, or the single one given by
// --type and --value.
func orientationsFromFlags(path, orientationType, value string, logger logging.Logger) ([]namedOrientation, error) {
	if path != "" {
		if orientationType != "" || value != "" {
			return nil, errors.Errorf("--%s cannot be combined with --%s or --%s",
				generalFlagFile, generalFlagType, generalFlagValue)
		}
		file, parsed, err := readOrientationFile(path)
		if err != nil {
			return nil, err
		}
		if file.LogLevel != nil {
			logger.SetLevel(*file.LogLevel)
		}
		logger.Debugw("read orientation file", "path", path, "count", len(parsed))
		if len(parsed) == 0 {
			return nil, errors.Errorf("no orientations in %s", path)
		}
		return parsed, nil
	}
	if orientationType == "" {
		return nil, errors.Errorf("either --%s or --%s is required", generalFlagFile, generalFlagType)
	}
	o, err := parseInlineOrientation(orientationType, value)
	if err != nil {
		return nil, err
	}
	return []namedOrientation{{orientationType, o}}, nil
}
