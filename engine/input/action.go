package input

// ActionID names an application-level action. Applications declare their actions as typed constants.
type ActionID string

// Action is the per-tick state of an action.
// JustDown and JustUp are never both true and stay set until Input.Update is called.
type Action struct {
	IsDown   bool
	JustDown bool
	JustUp   bool
}

// transition applies a new held state. Only an actual change of IsDown touches the edge flags,
// so repeated reports of the same state (key repeat) are ignored.
func (a *Action) transition(isDown bool) bool {
	if a.IsDown == isDown {
		return false
	}
	a.IsDown = isDown
	a.JustDown = isDown
	a.JustUp = !isDown
	return true
}

func (a *Action) clearEdges() {
	a.JustDown = false
	a.JustUp = false
}
