package scene

import (
	"spheretrace/contact"
	"spheretrace/geometry"
	"spheretrace/ray"
)

// Scene is an ordered collection of geometry.  It is built once, then shared
// read-only by every render worker.
type Scene struct {
	Elements []geometry.Geometry
}

func (s *Scene) Add(g geometry.Geometry) int {
	s.Elements = append(s.Elements, g)
	return len(s.Elements) - 1
}

func (s *Scene) Len() int {
	return len(s.Elements)
}

// Hit tests every element in order, shrinking the query as it goes, and
// returns the nearest contact.  When two elements are hit at exactly the same
// distance, the one added first wins.
func (s *Scene) Hit(q ray.RaySegment) (contact.Contact, bool) {
	nearest := contact.Contact{}
	found := false
	for _, g := range s.Elements {
		c, ok := g.Hit(q)
		if !ok {
			continue
		}
		if found && !(c.T < nearest.T) {
			continue
		}
		nearest = c
		found = true
		q.TheSegment.Hi = c.T
	}
	return nearest, found
}
