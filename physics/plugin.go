package physics

// Plugin is an engine extension installed through Engine.Use.
type Plugin interface {
	// Name is the unique registration key, e.g. "matter-sound".
	Name() string
	Version() string
	// Install subscribes the plugin to engine events. It runs once.
	Install(e *Engine) error
}

// BodyValidator is implemented by plugins that need to reject bodies whose
// metadata they cannot serve. Engine.Add consults every installed validator.
type BodyValidator interface {
	ValidateBody(b *Body) error
}
