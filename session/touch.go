package session

import (
	"time"

	"blueprint/graph"
)

// TouchNode restarts the highlight timer for n.
func (s *Session) TouchNode(n *graph.Node) {
	if n == nil {
		return
	}
	s.touch[n.ID] = s.touchDuration
}

// TouchProgress returns how far the highlight on n has decayed, in [0,1).
// Untouched and fully decayed nodes report 0.
func (s *Session) TouchProgress(n *graph.Node) float64 {
	if n == nil {
		return 0
	}
	rem, ok := s.touch[n.ID]
	if !ok || rem <= 0 {
		return 0
	}
	return float64(s.touchDuration-rem) / float64(s.touchDuration)
}

// Touched reports whether n still has a live highlight.
func (s *Session) Touched(n *graph.Node) bool {
	return n != nil && s.touch[n.ID] > 0
}

// UpdateTouch decays every timer by dt. Timers stop at zero.
func (s *Session) UpdateTouch(dt time.Duration) {
	if dt <= 0 {
		return
	}
	for id, rem := range s.touch {
		if rem <= 0 {
			continue
		}
		s.touch[id] = max(rem-dt, 0)
	}
}
