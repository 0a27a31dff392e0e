package spatialmath

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// RawOrientation holds the underlying type of orientation, and the value.
type RawOrientation struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ParseOrientation will use the Type in RawOrientation to unmarshal the Value into the correct struct
// that implements Orientation. An empty Type is no rotation.
func ParseOrientation(ro RawOrientation) (MutableOrientation, error) {
	var o MutableOrientation
	// Values decode into zero structs so that omitted fields are 0.
	switch ro.Type {
	case "":
		return NewZeroOrientation(), nil
	case QuaternionType:
		o = &Quaternion{}
	case RotationMatrixType:
		o = &RotationMatrix{}
	case AxisAngleType:
		o = &AxisAngle{}
	case YawPitchRollType:
		o = &YawPitchRoll{}
	case RotationVectorType:
		o = &RotationVector{}
	default:
		return nil, errors.Errorf("orientation type %s not recognized", ro.Type)
	}
	if len(ro.Value) == 0 {
		o.SetToZero()
		return o, nil
	}
	if err := json.Unmarshal(ro.Value, o); err != nil {
		return nil, err
	}
	if aa, ok := o.(*AxisAngle); ok {
		aa.Normalize()
	}
	return o, nil
}

// OrientationMap encodes the orientation interface to something serializable and human readable.
func OrientationMap(o Orientation) (map[string]interface{}, error) {
	switch v := o.(type) {
	case *Quaternion:
		return map[string]interface{}{"type": string(QuaternionType), "value": v}, nil
	case *RotationMatrix:
		return map[string]interface{}{"type": string(RotationMatrixType), "value": v}, nil
	case *AxisAngle:
		return map[string]interface{}{"type": string(AxisAngleType), "value": v}, nil
	case *YawPitchRoll:
		return map[string]interface{}{"type": string(YawPitchRollType), "value": v}, nil
	case *RotationVector:
		return map[string]interface{}{"type": string(RotationVectorType), "value": v}, nil
	default:
		return nil, errors.Errorf("do not know how to map Orientation type %T to json fields", o)
	}
}

type jsonQuaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	S float64 `json:"s"`
}

// MarshalJSON encodes the quaternion as {"x", "y", "z", "s"}.
func (q *Quaternion) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonQuaternion{q.Imag, q.Jmag, q.Kmag, q.Real})
}

// UnmarshalJSON decodes {"x", "y", "z", "s"} and normalizes the result. Omitted components are 0;
// an all zero value is the identity.
func (q *Quaternion) UnmarshalJSON(data []byte) error {
	var v jsonQuaternion
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	q.Set(v.X, v.Y, v.Z, v.S)
	return nil
}

// MarshalJSON encodes the matrix as its nine row major elements.
func (rm *RotationMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(rm.mat)
}

// UnmarshalJSON decodes nine row major elements, failing if they do not describe a rotation matrix.
func (rm *RotationMatrix) UnmarshalJSON(data []byte) error {
	var m []float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 9 {
		return errors.Errorf("a rotation matrix needs 9 elements, got %d", len(m))
	}
	return rm.SetFromArray(m, 0)
}
