package shared

/// global var to hold cli config instead of passing it everywhere
/// only the frontends read this, the engine gets explicit requests

import (
	"pixfx/engine"
	"pixfx/types"
)

var Config struct {
	// effect parameters, also the starting values in the viewer
	engine.Params
	// ops to run in order (apply only)
	Ops []string
	// rotate image before sorting (apply only)
	Angle float64
	// images processed at once (apply only)
	Threads int
	// undo depth
	History int
	// viewer frame interval in milliseconds
	FrameMillis int
	Debug       bool
	LogFile     string
}

const (
	DefaultThreshold   = 0.05
	DefaultDistance    = 10
	DefaultBlockSize   = 8
	DefaultShift       = 4
	DefaultThreads     = 1
	DefaultHistory     = 16
	DefaultFrameMillis = 33
)

// Defaults mirror the viewer's starting state.
func Defaults() {
	Config.Params = engine.Params{
		Threshold: types.ThresholdConfig{Value: DefaultThreshold, Above: true},
		Axis:      types.Horizontal,
		Distance:  DefaultDistance,
		BlockSize: DefaultBlockSize,
		Shift:     DefaultShift,
	}
	Config.Ops = nil
	Config.Angle = 0
	Config.Threads = DefaultThreads
	Config.History = DefaultHistory
	Config.FrameMillis = DefaultFrameMillis
	Config.Debug = false
	Config.LogFile = ""
}
