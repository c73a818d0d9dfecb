package bilateral

import (
	"github.com/born-ml/bilateral/internal/tensor"
	"github.com/pkg/errors"
)

// CheckSlice validates the shapes of a Slice call and returns the kernel
// layouts. The grid's sampled axes must be non-empty whenever the output is.
func CheckSlice(grid, guide tensor.Shape) (GridShape, GuideShape, error) {
	gs, gd, err := checkGridGuide(grid, guide)
	if err != nil {
		return GridShape{}, GuideShape{}, err
	}
	if SliceOutput(gs, gd).Len() > 0 && (gs.Depth == 0 || gs.Width == 0 || gs.Height == 0) {
		return GridShape{}, GuideShape{}, errors.Wrapf(tensor.ErrShapeMismatch,
			"cannot sample an empty grid %v at guide %v", grid, guide)
	}
	return gs, gd, nil
}

// CheckGridGrad validates the shapes of a GridGrad call: the codomain tangent
// must be (C, W, H, B) for grid (C, D, GX, GY, B) and guide (W, H, B).
func CheckGridGrad(guide, codomainTangent, grid tensor.Shape) (GridShape, GuideShape, error) {
	gs, gd, err := checkGridGuide(grid, guide)
	if err != nil {
		return GridShape{}, GuideShape{}, err
	}
	if err := checkTangent(gs, gd, codomainTangent); err != nil {
		return GridShape{}, GuideShape{}, err
	}
	return gs, gd, nil
}

// CheckGuideGrad validates the shapes of a GuideGrad call.
func CheckGuideGrad(grid, guide, codomainTangent tensor.Shape) (GridShape, GuideShape, error) {
	gs, gd, err := CheckSlice(grid, guide)
	if err != nil {
		return GridShape{}, GuideShape{}, err
	}
	if err := checkTangent(gs, gd, codomainTangent); err != nil {
		return GridShape{}, GuideShape{}, err
	}
	return gs, gd, nil
}

func checkGridGuide(grid, guide tensor.Shape) (GridShape, GuideShape, error) {
	if err := grid.Validate(); err != nil {
		return GridShape{}, GuideShape{}, errors.Wrap(err, "grid")
	}
	if err := guide.Validate(); err != nil {
		return GridShape{}, GuideShape{}, errors.Wrap(err, "guide")
	}
	gs, err := GridShapeOf(grid)
	if err != nil {
		return GridShape{}, GuideShape{}, err
	}
	gd, err := GuideShapeOf(guide)
	if err != nil {
		return GridShape{}, GuideShape{}, err
	}
	if gs.Batch != gd.Batch {
		return GridShape{}, GuideShape{}, errors.Wrapf(tensor.ErrShapeMismatch,
			"grid batch %d != guide batch %d", gs.Batch, gd.Batch)
	}
	return gs, gd, nil
}

func checkTangent(gs GridShape, gd GuideShape, codomainTangent tensor.Shape) error {
	want := SliceOutput(gs, gd).Shape()
	if !codomainTangent.Equal(want) {
		return errors.Wrapf(tensor.ErrShapeMismatch,
			"codomain tangent shape %v, want %v", codomainTangent, want)
	}
	return nil
}
