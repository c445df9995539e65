package input

import "log"

type InputBuilderOption func(*inputImpl)

// WithLogger sets the logger used for warnings and debug traces.
//
// Parameters:
//   - logger: the logger to write to, nil keeps the default logger
//
// Returns:
//   - InputBuilderOption: a function that sets the logger
func WithLogger(logger *log.Logger) InputBuilderOption {
	return func(i *inputImpl) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithDebugLogging enables tracing of registrations, bindings and action transitions.
//
// Parameters:
//   - enabled: whether debug traces are written
//
// Returns:
//   - InputBuilderOption: a function that toggles debug logging
func WithDebugLogging(enabled bool) InputBuilderOption {
	return func(i *inputImpl) {
		i.debug = enabled
	}
}

// WithBinding registers an action and binds the given buttons to it at construction time.
//
// Parameters:
//   - id: the action to register
//   - buttons: the buttons that drive the action
//
// Returns:
//   - InputBuilderOption: a function that registers the action and its bindings
func WithBinding(id ActionID, buttons ...Button) InputBuilderOption {
	return func(i *inputImpl) {
		i.registerAction(id)
		for _, b := range buttons {
			i.bindButton(b, id)
		}
	}
}
