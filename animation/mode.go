package animation

// Mode selects which clip pool a scheduler draws from.
type Mode int

const (
	ModeIdle Mode = iota
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeActive:
		return "active"
	default:
		return "unknown"
	}
}
