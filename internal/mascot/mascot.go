// Package mascot is the dog in the corner of the screen. It has no
// connection to the task list.
package mascot

// State is where the mascot is in its life cycle
type State int

const (
	Idle State = iota
	Dancing
	Departed
)

// DepartAfter is the click that makes the mascot leave for good
const DepartAfter = 5

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dancing:
		return "dancing"
	case Departed:
		return "departed"
	default:
		return "unknown"
	}
}

// Mascot is a click driven state machine. The zero value is an idle mascot.
type Mascot struct {
	state   State
	clicks  int
	message bool
}

// Click registers a click on the mascot and returns the new state.
// Clicks after departure are ignored.
func (m *Mascot) Click() State {
	if m.state == Departed {
		return m.state
	}

	m.clicks++
	if m.clicks >= DepartAfter {
		m.state = Departed
		m.message = true
		return m.state
	}

	if m.state == Dancing {
		m.state = Idle
	} else {
		m.state = Dancing
	}
	return m.state
}

// Dismiss hides the farewell message, if shown
func (m *Mascot) Dismiss() {
	m.message = false
}

// State returns the current state
func (m Mascot) State() State {
	return m.state
}

// Clicks returns how many clicks were counted before departure
func (m Mascot) Clicks() int {
	return m.clicks
}

// MessageVisible reports whether the farewell message is showing
func (m Mascot) MessageVisible() bool {
	return m.message
}

// Frame returns the ASCII art for the current state
func (m Mascot) Frame() string {
	switch m.state {
	case Dancing:
		return `\(^o^)/ ♪`
	case Departed:
		return ""
	default:
		return `(-.-) zZ`
	}
}

// Farewell is shown once the mascot has left
const Farewell = "The dog got tired of being poked and went home."
