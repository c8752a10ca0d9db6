package visualization

import "math"

// Project scales the X/Y plane of a frame's nodes into a width×height
// viewport with the given padding. Each axis is scaled independently.
func Project(nodes []FrameNode, width, height, padding float64) []Point {
	points := make([]Point, 0, len(nodes))
	if len(nodes) == 0 {
		return points
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X)
		minY = math.Min(minY, n.Y)
		maxY = math.Max(maxY, n.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	// a flat axis collapses to the padding edge instead of dividing by ~0
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := math.Max(width-2*padding, 0)
	targetHeight := math.Max(height-2*padding, 0)

	for _, n := range nodes {
		points = append(points, Point{
			ID:    n.ID,
			X:     padding + ((n.X-minX)/rangeX)*targetWidth,
			Y:     padding + ((n.Y-minY)/rangeY)*targetHeight,
			Depth: n.Z,
		})
	}

	return points
}
