package oecs

import "github.com/TheBitDrifter/bark"

// Config holds global, cross-cutting configuration for the storage engine.
var Config config = config{}

type config struct {
	// Debug enables the precondition-assertion facility. It is the
	// Go-native analogue of the source's __DEV__ compile-time flag: with
	// Debug off, debugAssert is a no-op, so a detected precondition
	// violation is returned as an error without panicking. Callers still
	// perform the check itself in both modes.
	Debug bool
}

// SetDebug toggles the precondition-assertion facility on or off.
func (c *config) SetDebug(on bool) {
	c.Debug = on
}

// debugAssert panics with a trace-wrapped err if cond is false and
// Config.Debug is enabled. It is a no-op otherwise, matching spec.md §4.6:
// precondition violations are programming errors surfaced in
// debug/development builds and elided in release builds.
func debugAssert(cond bool, err error) {
	if cond || !Config.Debug {
		return
	}
	panic(bark.AddTrace(err))
}
