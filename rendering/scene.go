package rendering

import (
	"sort"
)

// Scene is an ordered draw list. Opaque objects draw first in insertion
// order, then transparent ones. Scene never releases what it holds; owners
// Remove and Release.
type Scene struct {
	objects []Drawable
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add appends d unless it is already present.
func (s *Scene) Add(d Drawable) {
	if d == nil || s.Contains(d) {
		return
	}
	s.objects = append(s.objects, d)
}

// Remove drops d; removing an absent object is a no-op.
func (s *Scene) Remove(d Drawable) {
	for i, o := range s.objects {
		if o == d {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// Contains reports whether d is in the scene.
func (s *Scene) Contains(d Drawable) bool {
	for _, o := range s.objects {
		if o == d {
			return true
		}
	}
	return false
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Clear removes every object without releasing them.
func (s *Scene) Clear() {
	s.objects = nil
}

// Draw renders all objects with cam.
func (s *Scene) Draw(cam Camera) {
	ordered := make([]Drawable, len(s.objects))
	copy(ordered, s.objects)
	sort.SliceStable(ordered, func(i, j int) bool {
		return !ordered[i].Transparent() && ordered[j].Transparent()
	})
	for _, d := range ordered {
		d.Draw(cam)
	}
}
