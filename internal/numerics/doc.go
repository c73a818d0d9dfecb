// Package numerics provides the interpolation weights and boundary index
// helpers shared by the bilateral slicing kernels.
//
// All weights are functions of a sample centre and a query position on the
// same axis. LerpWeight is the usual triangular (tent) weight and is used on
// the spatial axes. SmoothedLerpWeight is a C¹ replacement used on the depth
// axis: it has the same support and end-point values, but its derivative is
// continuous everywhere, so gradients with respect to the guide are well
// defined at cell boundaries. SmoothedLerpWeightGrad is its exact derivative
// with respect to the query.
package numerics
