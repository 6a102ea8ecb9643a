package ui

import "sort"

// Painter draws a layer on top of what lies below it. below is the
// composited output of every lower layer ("" for the bottom one).
type Painter interface {
	Paint(below string, width, height int) string
}

// Layer is one entry in a ZStack.
type Layer struct {
	ID      string
	ZIndex  int
	Painter Painter
}

// ZStack holds layers composited bottom-up by z-index. Layers with equal
// z-index keep insertion order.
type ZStack struct {
	Layers []Layer
}

// Push adds a layer. A layer with the same ID is replaced in place.
func (s *ZStack) Push(l Layer) {
	for i := range s.Layers {
		if s.Layers[i].ID == l.ID {
			s.Layers[i] = l
			return
		}
	}
	s.Layers = append(s.Layers, l)
}

// Remove drops the layer with the given ID. Returns false if absent.
func (s *ZStack) Remove(id string) bool {
	for i := range s.Layers {
		if s.Layers[i].ID == id {
			s.Layers = append(s.Layers[:i], s.Layers[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the layer with the given ID.
func (s *ZStack) Find(id string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// Len returns the number of layers in the stack.
func (s *ZStack) Len() int {
	return len(s.Layers)
}

// Sorted returns the layers bottom to top.
func (s *ZStack) Sorted() []Layer {
	out := make([]Layer, len(s.Layers))
	copy(out, s.Layers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// Top returns the topmost layer.
func (s *ZStack) Top() (Layer, bool) {
	sorted := s.Sorted()
	if len(sorted) == 0 {
		return Layer{}, false
	}
	return sorted[len(sorted)-1], true
}

// Paint composites every layer, lowest first.
func (s *ZStack) Paint(width, height int) string {
	var out string
	for _, l := range s.Sorted() {
		if l.Painter == nil {
			continue
		}
		out = l.Painter.Paint(out, width, height)
	}
	return out
}

// ViewPainter paints a View opaquely, ignoring whatever is below it.
type ViewPainter struct {
	View View
}

// Paint implements Painter.
func (p ViewPainter) Paint(_ string, _, _ int) string {
	return p.View.View()
}
