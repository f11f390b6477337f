package workflow

import "errors"

var (
	// ErrUnknownKind is returned when a component kind is not in the catalog.
	ErrUnknownKind = errors.New("unknown component kind")

	// ErrNodeNotFound is returned when a node id does not exist in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrConnectionNotFound is returned when a connection id does not exist in the graph.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrInvalidConfigKey is returned when a config update carries a key
	// outside the node kind's schema.
	ErrInvalidConfigKey = errors.New("config key not allowed for component kind")

	// ErrInvalidConfigValue is returned when a config value falls outside
	// the allowed domain for its key.
	ErrInvalidConfigValue = errors.New("config value not allowed")

	// ErrEmptyGraph is returned by validation when the canvas has no components.
	ErrEmptyGraph = errors.New("workflow is empty")

	// ErrMissingRequiredKind is returned by validation when a mandatory
	// component kind is absent. It is wrapped with the missing kind.
	ErrMissingRequiredKind = errors.New("required component missing")
)
