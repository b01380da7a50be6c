package applier

// State is a step of applying one fillable.
type State int

const (
	StateLoaded State = iota
	StatePreHooked
	StateRendered
	StateStripped
	StatePostHooked
	StatePlaced
	StateCleaned
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StatePreHooked:
		return "pre-hooked"
	case StateRendered:
		return "rendered"
	case StateStripped:
		return "stripped"
	case StatePostHooked:
		return "post-hooked"
	case StatePlaced:
		return "placed"
	case StateCleaned:
		return "cleaned"
	default:
		return "unknown"
	}
}
