/*
Package geom is a float64 implementation of 2D points and rectangles used by
gesture tracking.

The coordinate space has the origin in the top left corner with the axes
extending right and down.
*/
package geom

import (
	"fmt"
	"math"
)

// A Point is a two dimensional point or vector.
type Point struct {
	X, Y float64
}

// A Rect contains the points (X, Y) where Min.X <= X < Max.X,
// Min.Y <= Y < Max.Y.
type Rect struct {
	Min, Max Point
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the vector p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// AddScalar adds s to both coordinates.
func (p Point) AddScalar(s float64) Point {
	return Point{X: p.X + s, Y: p.Y + s}
}

// SubScalar subtracts s from both coordinates.
func (p Point) SubScalar(s float64) Point {
	return Point{X: p.X - s, Y: p.Y - s}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Div returns p divided by s. Division by zero yields the zero point.
func (p Point) Div(s float64) Point {
	if s == 0 {
		return Point{}
	}
	return Point{X: p.X / s, Y: p.Y / s}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Abs returns the point with both coordinates made non-negative.
func (p Point) Abs() Point {
	return Point{X: math.Abs(p.X), Y: math.Abs(p.Y)}
}

// Round rounds both coordinates to the nearest integer.
func (p Point) Round() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}

// Length returns the euclidean norm of p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Equals reports whether p and p2 have identical coordinates.
func (p Point) Equals(p2 Point) bool {
	return p.X == p2.X && p.Y == p2.Y
}

// Max returns the component-wise maximum of p and p2.
func (p Point) Max(p2 Point) Point {
	return Point{X: math.Max(p.X, p2.X), Y: math.Max(p.Y, p2.Y)}
}

// Min returns the component-wise minimum of p and p2.
func (p Point) Min(p2 Point) Point {
	return Point{X: math.Min(p.X, p2.X), Y: math.Min(p.Y, p2.Y)}
}

// In reports whether p is in r.
func (p Point) In(r Rect) bool {
	return r.Min.X <= p.X && p.X < r.Max.X &&
		r.Min.Y <= p.Y && p.Y < r.Max.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Dist returns the distance between a and b.
func Dist(a, b Point) float64 {
	return a.Sub(b).Length()
}

// MidPoint returns the point halfway between a and b.
func MidPoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Sum adds all points together.
func Sum(points ...Point) Point {
	var s Point
	for _, p := range points {
		s = s.Add(p)
	}
	return s
}

// Centroid returns the average of the points, or the zero point when none
// are given.
func Centroid(points ...Point) Point {
	return Sum(points...).Div(float64(len(points)))
}

// RectXYWH returns the rectangle at (x, y) with the given size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Dx returns r's width.
func (r Rect) Dx() float64 {
	return r.Max.X - r.Min.X
}

// Dy returns r's height.
func (r Rect) Dy() float64 {
	return r.Max.Y - r.Min.Y
}

// Size returns r's width and height.
func (r Rect) Size() Point {
	return Point{X: r.Dx(), Y: r.Dy()}
}

// Empty reports whether r represents the empty area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.In(r)
}

// Add offsets r with the vector p.
func (r Rect) Add(p Point) Rect {
	return Rect{Min: r.Min.Add(p), Max: r.Max.Add(p)}
}

// Canon returns the canonical version of r, where Min is to
// the upper left of Max.
func (r Rect) Canon() Rect {
	if r.Max.X < r.Min.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}
