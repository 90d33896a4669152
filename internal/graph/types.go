// Package graph holds the commits of the open repository and lays them out as
// a lane-based DAG drawing.
//
// Commits stream in through Store.AddAll in any order. Each batch is sorted
// newest first and appended to the store, then placed one node at a time by a
// scheduler goroutine: a node gets a lane, and the edges to its children are
// turned into a Path. Callers that need a node's final position (reference
// labels, renderers) wait on Store.Placed.
package graph

import "time"

// RawCommit is the record handed over by the repository collaborator.
type RawCommit struct {
	ID            string
	Summary       string
	Message       string
	AuthorName    string
	AuthorMail    string
	CommitterName string
	CommitterMail string
	Date          time.Time
	Parents       []string
	IsStash       bool
	StashID       int
}

type Point struct {
	X float64
	Y float64
}

// Geometry holds the measurements the layout converts lanes and rows with.
type Geometry struct {
	RowHeight float64
	LaneWidth float64
	Radius    float64
	// LabelGap separates the widest lane from the first reference label.
	LabelGap float64
}

func DefaultGeometry() Geometry {
	return Geometry{
		RowHeight: 24,
		LaneWidth: 20,
		Radius:    4,
		LabelGap:  8,
	}
}

func (g Geometry) withDefaults() Geometry {
	def := DefaultGeometry()
	if g.RowHeight <= 0 {
		g.RowHeight = def.RowHeight
	}
	if g.LaneWidth <= 0 {
		g.LaneWidth = def.LaneWidth
	}
	if g.Radius <= 0 {
		g.Radius = def.Radius
	}
	if g.LabelGap < 0 {
		g.LabelGap = def.LabelGap
	}
	return g
}

// position of a node in row index on lane.
func (g Geometry) position(index, lane int) Point {
	return Point{
		X: g.RowHeight/2 + float64(lane)*g.LaneWidth,
		Y: float64(index)*g.RowHeight + g.RowHeight/2,
	}
}
