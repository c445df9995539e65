package input

import (
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type inputImpl struct {
	mu *sync.Mutex

	logger *log.Logger
	debug  bool

	bindings   map[Button]ActionID
	actions    map[ActionID]*Action
	held       map[Button]bool
	mouseDelta mgl32.Vec2
}

// Input maps physical buttons to application actions and tracks per-tick action state.
// Producers (window callbacks) report button changes and mouse motion; consumers read action
// state and the accumulated mouse delta during the tick; Update is called once per tick after all
// consumers have read, clearing the edge flags and the mouse delta.
type Input interface {
	// RegisterAction creates a new action in the released state.
	// Registering an action twice logs a warning and keeps the existing state.
	//
	// Parameters:
	//   - id: the action to register
	RegisterAction(id ActionID)

	// BindButton maps a button to an action. A button maps to at most one action;
	// rebinding logs a warning and replaces the previous mapping.
	//
	// Parameters:
	//   - button: the physical button
	//   - id: the action the button drives
	BindButton(button Button, id ActionID)

	// RegisterActionWithBinding registers an action and binds every given button to it.
	//
	// Parameters:
	//   - id: the action to register
	//   - buttons: the buttons that drive the action
	RegisterActionWithBinding(id ActionID, buttons ...Button)

	// UpdateButton reports a new held state for a physical button.
	// Unbound buttons are ignored. The bound action is down while any button bound to it is held.
	//
	// Parameters:
	//   - button: the physical button
	//   - isDown: true when the button is pressed
	UpdateButton(button Button, isDown bool)

	// UpdateAction sets an action's held state directly, bypassing bindings.
	//
	// Parameters:
	//   - id: the action to update
	//   - isDown: the new held state
	UpdateAction(id ActionID, isDown bool)

	// Action returns a copy of the action's state.
	// Unregistered actions log a warning and return the zero Action.
	//
	// Parameters:
	//   - id: the action to query
	//
	// Returns:
	//   - Action: the action state
	Action(id ActionID) Action

	// Binding returns the action a button is bound to.
	//
	// Parameters:
	//   - button: the physical button
	//
	// Returns:
	//   - ActionID: the bound action
	//   - bool: false if the button is unbound
	Binding(button Button) (ActionID, bool)

	// UpdateMouseDelta adds relative mouse motion to this tick's accumulated delta.
	//
	// Parameters:
	//   - delta: the relative motion in device units
	UpdateMouseDelta(delta mgl32.Vec2)

	// MouseDelta returns the mouse motion accumulated since the last Update.
	//
	// Returns:
	//   - mgl32.Vec2: the accumulated delta
	MouseDelta() mgl32.Vec2

	// Update ends the tick: clears JustDown/JustUp on every action and zeroes the mouse delta.
	// Held states are kept.
	Update()
}

var _ Input = &inputImpl{}

// NewInput creates an Input with no actions and no bindings.
//
// Parameters:
//   - options: variadic list of InputBuilderOption functions to configure the Input
//
// Returns:
//   - Input: the new Input
func NewInput(options ...InputBuilderOption) Input {
	i := &inputImpl{
		mu:       &sync.Mutex{},
		logger:   log.Default(),
		bindings: make(map[Button]ActionID),
		actions:  make(map[ActionID]*Action),
		held:     make(map[Button]bool),
	}

	for _, opt := range options {
		opt(i)
	}

	return i
}

func (i *inputImpl) RegisterAction(id ActionID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.registerAction(id)
}

func (i *inputImpl) registerAction(id ActionID) {
	if _, ok := i.actions[id]; ok {
		i.logger.Printf("[Input] WARNING: action %q is already registered", id)
		return
	}
	i.actions[id] = &Action{}
	i.debugf("registered action %q", id)
}

func (i *inputImpl) BindButton(button Button, id ActionID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bindButton(button, id)
}

func (i *inputImpl) bindButton(button Button, id ActionID) {
	prev, rebound := i.bindings[button]
	if rebound {
		i.logger.Printf("[Input] WARNING: %s was bound to %q, rebinding to %q", button, prev, id)
	}
	i.bindings[button] = id
	i.debugf("bound %s to %q", button, id)

	// a held button no longer counts towards its previous action
	if rebound && prev != id && i.held[button] {
		if action, ok := i.actions[prev]; ok && action.transition(i.anyHeld(prev)) {
			i.debugf("%s unbound from %q while held, down=%t", button, prev, action.IsDown)
		}
	}
}

// anyHeld reports whether any button currently bound to id is held.
func (i *inputImpl) anyHeld(id ActionID) bool {
	for b := range i.held {
		if i.bindings[b] == id {
			return true
		}
	}
	return false
}

func (i *inputImpl) RegisterActionWithBinding(id ActionID, buttons ...Button) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.registerAction(id)
	for _, b := range buttons {
		i.bindButton(b, id)
	}
}

func (i *inputImpl) UpdateButton(button Button, isDown bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if isDown {
		i.held[button] = true
	} else {
		delete(i.held, button)
	}

	id, ok := i.bindings[button]
	if !ok {
		return
	}
	action, ok := i.actions[id]
	if !ok {
		i.logger.Printf("[Input] WARNING: %s is bound to unregistered action %q", button, id)
		return
	}

	// another button bound to the same action may still be held
	down := isDown || i.anyHeld(id)

	if action.transition(down) {
		i.debugf("%s -> %q down=%t", button, id, down)
	}
}

func (i *inputImpl) UpdateAction(id ActionID, isDown bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	action, ok := i.actions[id]
	if !ok {
		i.logger.Printf("[Input] WARNING: update of unregistered action %q", id)
		return
	}
	if action.transition(isDown) {
		i.debugf("%q down=%t", id, isDown)
	}
}

func (i *inputImpl) Action(id ActionID) Action {
	i.mu.Lock()
	defer i.mu.Unlock()

	action, ok := i.actions[id]
	if !ok {
		i.logger.Printf("[Input] WARNING: query of unregistered action %q", id)
		return Action{}
	}
	return *action
}

func (i *inputImpl) Binding(button Button) (ActionID, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	id, ok := i.bindings[button]
	return id, ok
}

func (i *inputImpl) UpdateMouseDelta(delta mgl32.Vec2) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mouseDelta = i.mouseDelta.Add(delta)
}

func (i *inputImpl) MouseDelta() mgl32.Vec2 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.mouseDelta
}

func (i *inputImpl) Update() {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, action := range i.actions {
		action.clearEdges()
	}
	i.mouseDelta = mgl32.Vec2{}
}

func (i *inputImpl) debugf(format string, args ...any) {
	if i.debug {
		i.logger.Printf("[Input] "+format, args...)
	}
}
