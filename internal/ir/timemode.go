package ir

import "fmt"

// TimeMode is the value of ids_properties/homogeneous_time.
type TimeMode int32

const (
	// TimeModeUnknown means homogeneous_time was never set.
	TimeModeUnknown TimeMode = TimeMode(EmptyInt)
	// TimeModeHeterogeneous gives every dynamic quantity its own time base.
	TimeModeHeterogeneous TimeMode = 0
	// TimeModeHomogeneous shares the root time base across the document.
	TimeModeHomogeneous TimeMode = 1
	// TimeModeIndependent forbids time-dependent quantities.
	TimeModeIndependent TimeMode = 2
)

// Valid reports whether m is one of the three declared time modes.
func (m TimeMode) Valid() bool {
	switch m {
	case TimeModeHeterogeneous, TimeModeHomogeneous, TimeModeIndependent:
		return true
	}
	return false
}

func (m TimeMode) String() string {
	switch m {
	case TimeModeUnknown:
		return "unknown"
	case TimeModeHeterogeneous:
		return "heterogeneous"
	case TimeModeHomogeneous:
		return "homogeneous"
	case TimeModeIndependent:
		return "independent"
	}
	return fmt.Sprintf("TimeMode(%d)", int32(m))
}

// TimePath is the path of the canonical time base of a document.
const TimePath = "time"

// TimeModePath is the path of the time mode flag of a document.
const TimeModePath = "ids_properties/homogeneous_time"

// Lifecycle is the Data Dictionary classification of a node.
type Lifecycle int

const (
	// LifecycleStatic nodes do not change over the lifetime of a device.
	LifecycleStatic Lifecycle = iota
	// LifecycleConstant nodes do not change within one document.
	LifecycleConstant
	// LifecycleDynamic nodes are time dependent.
	LifecycleDynamic
)

// ParseLifecycle parses the "type" attribute of a Data Dictionary node.
// An empty string is static.
func ParseLifecycle(s string) (Lifecycle, error) {
	switch s {
	case "", "static":
		return LifecycleStatic, nil
	case "constant":
		return LifecycleConstant, nil
	case "dynamic":
		return LifecycleDynamic, nil
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

func (l Lifecycle) String() string {
	switch l {
	case LifecycleConstant:
		return "constant"
	case LifecycleDynamic:
		return "dynamic"
	}
	return "static"
}
