package logging

import (
	"context"

	"go.viam.com/utils"
)

type debugModeKey struct{}

// EnableDebugMode returns a context whose C* log calls are written even when the logger is above
// debug level. An empty name is replaced with a random one.
func EnableDebugMode(ctx context.Context, name string) context.Context {
	if name == "" {
		name = utils.RandomAlphaString(6)
	}
	return context.WithValue(ctx, debugModeKey{}, name)
}

// IsDebugMode returns whether EnableDebugMode was applied to ctx.
func IsDebugMode(ctx context.Context) bool {
	_, ok := ctx.Value(debugModeKey{}).(string)
	return ok
}

// GetName returns the name given to EnableDebugMode, or "".
func GetName(ctx context.Context) string {
	name, _ := ctx.Value(debugModeKey{}).(string)
	return name
}
