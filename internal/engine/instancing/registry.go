package instancing

// Registry lists every instanced model of a render context. It does not own
// the models; they live as long as the world that created them.
type Registry struct {
	models []*Model
}

// Add registers m.
func (r *Registry) Add(m *Model) {
	r.models = append(r.models, m)
}

// Models returns the registered models in registration order.
func (r *Registry) Models() []*Model {
	return r.models
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.models)
}

// Reset drops queued instances of every model.
func (r *Registry) Reset() {
	for _, m := range r.models {
		m.Reset()
	}
}
