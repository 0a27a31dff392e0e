package utils

import (
	"reflect"

	"github.com/pkg/errors"
)

// NewUnimplementedInterfaceError is used when there is a failed interface check.
func NewUnimplementedInterfaceError(expected, actual interface{}) error {
	return errors.Errorf("expected implementation of %s but got %T", typeName(expected), actual)
}

// typeName unwraps pointers to interfaces so that (*SomeInterface)(nil) reports SomeInterface.
func typeName(of interface{}) string {
	if of == nil {
		return "<unknown (nil interface)>"
	}
	t := reflect.TypeOf(of)
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return t.Elem().String()
	}
	return t.String()
}
