package api

// Handlers holds the HTTP handlers and their shared dependencies
type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates the handler set
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{deps: deps}
}
