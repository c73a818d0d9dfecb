// Package bilateral implements the bilateral slicing operator and its two
// vector-Jacobian products as flat, data-parallel kernels.
//
// A bilateral grid is a coarse 5-D array (channel, depth, grid-x, grid-y,
// batch). Slicing samples it at full resolution: every output pixel (x, y)
// maps to a fractional grid position ((x+0.5)·GX/W, (y+0.5)·GY/H) and to the
// depth position guide(x, y)·D, and the grid is interpolated trilinearly
// there. Spatial axes use tent weights; the depth axis uses the C¹ smoothed
// weight from package numerics so that the guide gradient stays continuous.
//
// Every kernel is launched as one task per element of its output and writes
// exactly that element:
//
//	Slice      one task per (c, x, y, b)       clamp on all sampled axes
//	GridGrad   one task per (c, z, gx, gy, b)  mirror on x/y, clamp override on z
//	GuideGrad  one task per (x, y, b)          clamp on all sampled axes
//
// Shape compatibility is a precondition checked once by the caller with
// CheckSlice, CheckGridGrad or CheckGuideGrad; kernels do not re-validate.
package bilateral
