package sprite

import "weak"

// WeakRenderer is a weak reference to a Renderer. Resources created by a
// renderer hold one so they never keep it alive.
type WeakRenderer struct {
	p weak.Pointer[Renderer]
}

// Upgrade returns the renderer if it is still alive.
func (w WeakRenderer) Upgrade() (*Renderer, bool) {
	r := w.p.Value()
	return r, r != nil
}

// CloneHandle returns a strong handle to the renderer, obtained through its
// own back-reference.
func (r *Renderer) CloneHandle() *Renderer {
	return r.self.Value()
}

// CloneWeakHandle returns a weak handle to the renderer.
func (r *Renderer) CloneWeakHandle() WeakRenderer {
	return WeakRenderer{p: r.self}
}
