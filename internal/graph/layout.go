package graph

import (
	"fmt"
	"log/slog"
	"math"
)

// placeLocked lays out one node: it picks the lane, then builds the edges
// towards the children that already have one.
func (s *Store) placeLocked(n *Node) (*widenEvent, error) {
	if n.path != nil {
		return nil, nil
	}
	if err := s.assignLaneLocked(n); err != nil {
		return nil, fmt.Errorf("layout %s: %w", n.ShortID(), err)
	}

	n.color = s.palette.LaneColor(n.lane)
	if n.IsStash {
		n.path = s.stashPathLocked(n)
	} else {
		n.path = s.edgePathLocked(n)
	}

	var ev *widenEvent
	if w := float64(n.lane+1) * s.geometry.LaneWidth; w > s.width {
		ev = &widenEvent{old: s.width, new: w}
		s.width = w
	}
	s.log.Debug("placed commit",
		slog.String("commit", n.ShortID()),
		slog.Int("index", n.index),
		slog.Int("lane", n.lane),
	)
	return ev, nil
}

func (s *Store) assignLaneLocked(n *Node) error {
	children := s.childrenLocked(n)

	// Continue the lane of the newest child.
	if n.lane < 0 && n.index > 0 && len(children) > 0 && children[0].lane >= 0 {
		n.lane = children[0].lane
	} else if n.lane < 0 {
		n.lane = s.lanes.Allocate()
	}

	// Branches forking here end at this node.
	if len(children) > 1 {
		for _, child := range children[1:] {
			if child.lane < 0 {
				continue
			}
			if s.isBranchUpdateLocked(child) {
				if parents := s.parentsLocked(child); len(parents) > 1 && parents[1] == n {
					continue
				}
			}
			if err := s.lanes.Release(child.lane); err != nil {
				return fmt.Errorf("release lane of child %s: %w", child.ShortID(), err)
			}
		}
	}

	if s.isBranchHeadMergeLocked(n) {
		parents := s.parentsLocked(n)
		// Every merged parent moves to a fresh lane, even one that was
		// already placed out of date order.
		for _, p := range parents[min(1, len(parents)):] {
			p.lane = s.lanes.Allocate()
		}
	}
	return nil
}

func (s *Store) edgePathLocked(n *Node) *Path {
	g := s.geometry
	r, w := g.Radius, g.LaneWidth
	pos := g.position(n.index, n.lane)
	split := len(s.children[n.ID]) > 1

	p := &Path{Glyph: Glyph{Kind: GlyphCircle, Center: pos, Radius: r}}
	for _, child := range s.childrenLocked(n) {
		if child.lane < 0 {
			continue
		}
		cpos := g.position(child.index, child.lane)
		// dir points from this lane towards the child's lane.
		dir := 1.0
		if n.lane > child.lane {
			dir = -1
		}
		update := s.isBranchUpdateLocked(child)
		switch {
		case child.lane == n.lane:
			p.moveTo(pos.X, pos.Y-r)
			p.vertical(cpos.Y + r)
		case s.isBranchHeadMergeLocked(child) || (split && update):
			// Rise in our lane and bend into the merge.
			p.moveTo(pos.X, pos.Y-r)
			p.vertical(cpos.Y + g.RowHeight - r)
			p.quad(pos.X, cpos.Y, pos.X+(w-r)*dir, cpos.Y)
			p.horizontal(cpos.X - dir*r)
		case split && !update:
			// Peel off sideways and rise in the child's lane.
			p.moveTo(pos.X+dir*r, pos.Y)
			p.horizontal(cpos.X - (w-r)*dir)
			p.quad(cpos.X, pos.Y, cpos.X, math.Max(pos.Y-w, cpos.Y+r))
			p.vertical(cpos.Y + r)
		}
	}
	return p
}

func (s *Store) stashPathLocked(n *Node) *Path {
	pos := s.geometry.position(n.index, n.lane)
	return &Path{Glyph: Glyph{Kind: GlyphStash, Center: pos, Radius: s.geometry.Radius}}
}
