package instancing

import "github.com/go-gl/mathgl/mgl32"

type submission struct {
	model     *Model
	transform mgl32.Mat4
	id        uint32
}

// Batch stages submissions away from the models. A Batch is confined to one
// goroutine; workers fill their own batches and the render thread commits
// them, since Model.Submit is not safe for concurrent use.
type Batch struct {
	subs []submission
}

// Submit stages one instance of m.
func (b *Batch) Submit(m *Model, transform mgl32.Mat4, id uint32) {
	b.subs = append(b.subs, submission{model: m, transform: transform, id: id})
}

// Len returns the number of staged submissions.
func (b *Batch) Len() int {
	return len(b.subs)
}

// Commit submits every staged instance in staging order and empties the batch.
func (b *Batch) Commit() {
	for _, s := range b.subs {
		s.model.Submit(s.transform, s.id)
	}
	b.subs = b.subs[:0]
}
