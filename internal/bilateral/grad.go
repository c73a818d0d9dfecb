package bilateral

import (
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/bilateral/internal/numerics"
	"github.com/born-ml/bilateral/internal/parallel"
)

// Grad runs GridGrad and GuideGrad concurrently. Their outputs are disjoint
// and their inputs read-only, so no ordering between them is needed. The
// first failure is returned once both launches have finished.
func Grad[T numerics.Float](l parallel.Launcher, grid []T, gs GridShape, guide []T, gd GuideShape, codomainTangent []T, gridGrad, guideGrad []T) error {
	var g errgroup.Group
	g.Go(func() error {
		return GridGrad(l, guide, gd, codomainTangent, gridGrad, gs)
	})
	g.Go(func() error {
		return GuideGrad(l, grid, gs, guide, gd, codomainTangent, guideGrad)
	})
	return g.Wait()
}
