//go:build windows

package webgpu

// WGSL compute shaders for the bilateral slicing kernels.
// Using string constants instead of embed for simplicity.

// workgroupSize is the number of threads per workgroup.
const workgroupSize = 256

// maxWorkgroups is the per-dimension dispatch limit guaranteed by WebGPU.
// Larger launches are covered by the grid-stride loop in each kernel.
const maxWorkgroups = 65535

// bilateralPrelude declares the launch parameters, weight functions and
// index helpers shared by all three kernels. Layouts are first-axis fastest:
// grid (C, D, GX, GY, B), guide (W, H, B), output (C, W, H, B).
const bilateralPrelude = `
struct Params {
    channels: u32,
    depth: u32,
    grid_width: u32,
    grid_height: u32,
    guide_width: u32,
    guide_height: u32,
    batch: u32,
    count: u32,
}

fn lerp_weight(center: f32, query: f32) -> f32 {
    let d = abs(center - query);
    if (d >= 1.0) {
        return 0.0;
    }
    return 1.0 - d;
}

fn smoothed_lerp_weight(center: f32, query: f32) -> f32 {
    let d = abs(center - query);
    if (d >= 1.0) {
        return 0.0;
    }
    return 1.0 - d * d * (3.0 - 2.0 * d);
}

fn smoothed_lerp_weight_grad(center: f32, query: f32) -> f32 {
    let d = center - query;
    let ad = abs(d);
    if (ad >= 1.0) {
        return 0.0;
    }
    return 6.0 * d * (1.0 - ad);
}

fn mirror_boundary(index: i32, extent: i32) -> i32 {
    let period = 2 * extent;
    var i = index % period;
    if (i < 0) {
        i = i + period;
    }
    if (i >= extent) {
        i = period - 1 - i;
    }
    return i;
}

fn grid_offset(p: Params, c: i32, z: i32, x: i32, y: i32, b: i32) -> u32 {
    let ch = i32(p.channels);
    return u32(c + ch * (z + i32(p.depth) * (x + i32(p.grid_width) * (y + i32(p.grid_height) * b))));
}

fn output_offset(p: Params, c: i32, x: i32, y: i32, b: i32) -> u32 {
    return u32(c + i32(p.channels) * (x + i32(p.guide_width) * (y + i32(p.guide_height) * b)));
}

fn guide_offset(p: Params, x: i32, y: i32, b: i32) -> u32 {
    return u32(x + i32(p.guide_width) * (y + i32(p.guide_height) * b));
}

`

// stencilSample is the forward stencil, for shaders that bind grid.
const stencilSample = `
// Clamped stencil sum over the 2x2x2 neighbourhood of (gxf, gyf, gzf).
// When grad is set the depth weight is depth * d(smoothed)/d(query).
fn stencil_sum(p: Params, c: i32, b: i32, gxf: f32, gyf: f32, gzf: f32, grad: bool) -> f32 {
    let gx0 = i32(floor(gxf - 0.5));
    let gy0 = i32(floor(gyf - 0.5));
    let gz0 = i32(floor(gzf - 0.5));
    var value = 0.0;
    for (var j = 0; j < 2; j = j + 1) {
        let gy = gy0 + j;
        let yc = clamp(gy, 0, i32(p.grid_height) - 1);
        let wy = lerp_weight(f32(gy) + 0.5, gyf);
        for (var i = 0; i < 2; i = i + 1) {
            let gx = gx0 + i;
            let xc = clamp(gx, 0, i32(p.grid_width) - 1);
            let wx = lerp_weight(f32(gx) + 0.5, gxf);
            for (var k = 0; k < 2; k = k + 1) {
                let gz = gz0 + k;
                let zc = clamp(gz, 0, i32(p.depth) - 1);
                var wz = 0.0;
                if (grad) {
                    wz = f32(p.depth) * smoothed_lerp_weight_grad(f32(gz) + 0.5, gzf);
                } else {
                    wz = smoothed_lerp_weight(f32(gz) + 0.5, gzf);
                }
                value = value + wx * wy * wz * grid[grid_offset(p, c, zc, xc, yc, b)];
            }
        }
    }
    return value;
}
`

// bilateralSliceShader computes one output element per task.
const bilateralSliceShader = `
@group(0) @binding(0) var<storage, read> grid: array<f32>;
@group(0) @binding(1) var<storage, read> guide: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;
@group(0) @binding(3) var<uniform> params: Params;
` + bilateralPrelude + stencilSample + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(num_workgroups) num_groups: vec3<u32>) {
    let stride = num_groups.x * 256u;
    let scale_x = f32(params.grid_width) / f32(params.guide_width);
    let scale_y = f32(params.grid_height) / f32(params.guide_height);
    for (var idx = global_id.x; idx < params.count; idx = idx + stride) {
        let c = i32(idx % params.channels);
        var rest = idx / params.channels;
        let x = i32(rest % params.guide_width);
        rest = rest / params.guide_width;
        let y = i32(rest % params.guide_height);
        let b = i32(rest / params.guide_height);

        let gxf = (f32(x) + 0.5) * scale_x;
        let gyf = (f32(y) + 0.5) * scale_y;
        let gzf = guide[guide_offset(params, x, y, b)] * f32(params.depth);
        result[idx] = stencil_sum(params, c, b, gxf, gyf, gzf, false);
    }
}
`

// bilateralGridGradShader computes one grid cell per task by gathering over
// the window of guide pixels that can reach it.
const bilateralGridGradShader = `
@group(0) @binding(0) var<storage, read> guide: array<f32>;
@group(0) @binding(1) var<storage, read> tangent: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;
@group(0) @binding(3) var<uniform> params: Params;
` + bilateralPrelude + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(num_workgroups) num_groups: vec3<u32>) {
    let stride = num_groups.x * 256u;
    let scale_x = f32(params.guide_width) / f32(params.grid_width);
    let scale_y = f32(params.guide_height) / f32(params.grid_height);
    let depth = f32(params.depth);
    let last_z = i32(params.depth) - 1;
    let w = i32(params.guide_width);
    let h = i32(params.guide_height);
    for (var idx = global_id.x; idx < params.count; idx = idx + stride) {
        let c = i32(idx % params.channels);
        var rest = idx / params.channels;
        let gz = i32(rest % params.depth);
        rest = rest / params.depth;
        let gx = i32(rest % params.grid_width);
        rest = rest / params.grid_width;
        let gy = i32(rest % params.grid_height);
        let b = i32(rest / params.grid_height);

        let x0 = i32(floor(scale_x * (f32(gx) - 0.5)));
        let x1 = i32(ceil(scale_x * (f32(gx) + 1.5)));
        let y0 = i32(floor(scale_y * (f32(gy) - 0.5)));
        let y1 = i32(ceil(scale_y * (f32(gy) + 1.5)));

        var value = 0.0;
        for (var y = y0; y < y1; y = y + 1) {
            let ym = mirror_boundary(y, h);
            let wy = lerp_weight(f32(gy) + 0.5, (f32(y) + 0.5) / scale_y);
            for (var x = x0; x < x1; x = x + 1) {
                let xm = mirror_boundary(x, w);
                let wx = lerp_weight(f32(gx) + 0.5, (f32(x) + 0.5) / scale_x);
                let gzf = guide[guide_offset(params, xm, ym, b)] * depth;
                var wz = smoothed_lerp_weight(f32(gz) + 0.5, gzf);
                if ((gz == 0 && gzf < 0.5) || (gz == last_z && gzf > depth - 0.5)) {
                    wz = 1.0;
                }
                value = value + wz * wx * wy * tangent[output_offset(params, c, xm, ym, b)];
            }
        }
        result[idx] = value;
    }
}
`

// bilateralGuideGradShader computes one guide pixel per task, contracting
// the depth derivative of the sample with the tangent over channels.
const bilateralGuideGradShader = `
@group(0) @binding(0) var<storage, read> grid: array<f32>;
@group(0) @binding(1) var<storage, read> guide: array<f32>;
@group(0) @binding(2) var<storage, read> tangent: array<f32>;
@group(0) @binding(3) var<storage, read_write> result: array<f32>;
@group(0) @binding(4) var<uniform> params: Params;
` + bilateralPrelude + stencilSample + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(num_workgroups) num_groups: vec3<u32>) {
    let stride = num_groups.x * 256u;
    let scale_x = f32(params.grid_width) / f32(params.guide_width);
    let scale_y = f32(params.grid_height) / f32(params.guide_height);
    for (var idx = global_id.x; idx < params.count; idx = idx + stride) {
        let x = i32(idx % params.guide_width);
        var rest = idx / params.guide_width;
        let y = i32(rest % params.guide_height);
        let b = i32(rest / params.guide_height);

        let gxf = (f32(x) + 0.5) * scale_x;
        let gyf = (f32(y) + 0.5) * scale_y;
        let gzf = guide[idx] * f32(params.depth);
        var value = 0.0;
        for (var c = 0; c < i32(params.channels); c = c + 1) {
            value = value + stencil_sum(params, c, b, gxf, gyf, gzf, true) * tangent[output_offset(params, c, x, y, b)];
        }
        result[idx] = value;
    }
}
`
