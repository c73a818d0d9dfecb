package bilateral

import (
	"github.com/born-ml/bilateral/internal/tensor"
	"github.com/pkg/errors"
)

// GridShape is the extent of a bilateral grid, stored channel-innermost as
// (C, D, GX, GY, B).
type GridShape struct {
	Channels, Depth, Width, Height, Batch int
}

// GuideShape is the extent of a guide map, stored as (W, H, B).
type GuideShape struct {
	Width, Height, Batch int
}

// OutputShape is the extent of a sliced output or of its codomain tangent,
// stored as (C, W, H, B).
type OutputShape struct {
	Channels, Width, Height, Batch int
}

// GridShapeOf converts a rank-5 tensor shape.
func GridShapeOf(s tensor.Shape) (GridShape, error) {
	if s.Rank() != 5 {
		return GridShape{}, errors.Wrapf(tensor.ErrShapeMismatch, "grid must have rank 5 (C, D, GX, GY, B), got %v", s)
	}
	return GridShape{Channels: s[0], Depth: s[1], Width: s[2], Height: s[3], Batch: s[4]}, nil
}

// GuideShapeOf converts a rank-3 tensor shape.
func GuideShapeOf(s tensor.Shape) (GuideShape, error) {
	if s.Rank() != 3 {
		return GuideShape{}, errors.Wrapf(tensor.ErrShapeMismatch, "guide must have rank 3 (W, H, B), got %v", s)
	}
	return GuideShape{Width: s[0], Height: s[1], Batch: s[2]}, nil
}

// OutputShapeOf converts a rank-4 tensor shape.
func OutputShapeOf(s tensor.Shape) (OutputShape, error) {
	if s.Rank() != 4 {
		return OutputShape{}, errors.Wrapf(tensor.ErrShapeMismatch, "output must have rank 4 (C, W, H, B), got %v", s)
	}
	return OutputShape{Channels: s[0], Width: s[1], Height: s[2], Batch: s[3]}, nil
}

// SliceOutput is the shape Slice produces for a grid and a guide.
func SliceOutput(gs GridShape, gd GuideShape) OutputShape {
	return OutputShape{Channels: gs.Channels, Width: gd.Width, Height: gd.Height, Batch: gd.Batch}
}

// Shape returns the tensor shape (C, D, GX, GY, B).
func (s GridShape) Shape() tensor.Shape {
	return tensor.Shape{s.Channels, s.Depth, s.Width, s.Height, s.Batch}
}

// Len is the number of elements.
func (s GridShape) Len() int {
	return s.Channels * s.Depth * s.Width * s.Height * s.Batch
}

// Offset returns the flat index of (c, z, x, y, b).
func (s GridShape) Offset(c, z, x, y, b int) int {
	return c + s.Channels*(z+s.Depth*(x+s.Width*(y+s.Height*b)))
}

// Unravel factors a flat index back into (c, z, x, y, b).
func (s GridShape) Unravel(idx int) (c, z, x, y, b int) {
	zStride := s.Channels
	xStride := zStride * s.Depth
	yStride := xStride * s.Width
	bStride := yStride * s.Height
	c = idx % s.Channels
	z = (idx / zStride) % s.Depth
	x = (idx / xStride) % s.Width
	y = (idx / yStride) % s.Height
	b = idx / bStride
	return
}

// Shape returns the tensor shape (W, H, B).
func (s GuideShape) Shape() tensor.Shape {
	return tensor.Shape{s.Width, s.Height, s.Batch}
}

// Len is the number of elements.
func (s GuideShape) Len() int {
	return s.Width * s.Height * s.Batch
}

// Offset returns the flat index of (x, y, b).
func (s GuideShape) Offset(x, y, b int) int {
	return x + s.Width*(y+s.Height*b)
}

// Unravel factors a flat index back into (x, y, b).
func (s GuideShape) Unravel(idx int) (x, y, b int) {
	yStride := s.Width
	bStride := yStride * s.Height
	x = idx % s.Width
	y = (idx / yStride) % s.Height
	b = idx / bStride
	return
}

// Shape returns the tensor shape (C, W, H, B).
func (s OutputShape) Shape() tensor.Shape {
	return tensor.Shape{s.Channels, s.Width, s.Height, s.Batch}
}

// Len is the number of elements.
func (s OutputShape) Len() int {
	return s.Channels * s.Width * s.Height * s.Batch
}

// Offset returns the flat index of (c, x, y, b).
func (s OutputShape) Offset(c, x, y, b int) int {
	return c + s.Channels*(x+s.Width*(y+s.Height*b))
}

// Unravel factors a flat index back into (c, x, y, b).
func (s OutputShape) Unravel(idx int) (c, x, y, b int) {
	xStride := s.Channels
	yStride := xStride * s.Width
	bStride := yStride * s.Height
	c = idx % s.Channels
	x = (idx / xStride) % s.Width
	y = (idx / yStride) % s.Height
	b = idx / bStride
	return
}
