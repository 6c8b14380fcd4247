package posture

import (
	"image"
)

// BBox is axis-aligned bounding box given by upper-left (X1, Y1) and lower-right (X2, Y2) corners
type BBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

func NewBBox(x1, y1, x2, y2 float64) BBox {
	return BBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// NewBBoxFromRect creates box from top-left corner and size
func NewBBoxFromRect(x, y, width, height float64) BBox {
	return BBox{
		X1: x,
		Y1: y,
		X2: x + width,
		Y2: y + height,
	}
}

func NewBBoxFrom(rect image.Rectangle) BBox {
	return BBox{
		X1: float64(rect.Min.X),
		Y1: float64(rect.Min.Y),
		X2: float64(rect.Max.X),
		Y2: float64(rect.Max.Y),
	}
}

func (b BBox) Width() float64 {
	return b.X2 - b.X1
}

func (b BBox) Height() float64 {
	return b.Y2 - b.Y1
}

// Center returns midpoint of the box
func (b BBox) Center() Point {
	return Point{
		X: (b.X1 + b.X2) / 2.0,
		Y: (b.Y1 + b.Y2) / 2.0,
	}
}

// AspectRatio returns width/height. Zero-height (or inverted) boxes give 0
func (b BBox) AspectRatio() float64 {
	height := b.Height()
	if height <= 0 {
		return 0
	}
	return b.Width() / height
}

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}
