package solver

import (
	rgb "lightbake/color"
	"lightbake/math"
	"lightbake/worker"
)

// aoTask is one texel's ambient-occlusion sample, carrying everything
// Perform needs except the per-worker Toolbox: raster coordinate, world
// position/normal, and sampled albedo.
type aoTask struct {
	X, Y   int
	P, N   math.Vec3
	Albedo rgb.RGB
	Result rgb.RGB
}

// Perform draws sampleCount cosine-accepted hemisphere directions (via
// rejection sampling over a uniform sphere distribution) and traces each
// against the shared grid; any ray that reaches rayMaxDistance with no
// hit contributes its cosine weight to the occlusion sum. A degenerate
// (zero-length) normal yields black without error, the documented
// per-texel silent-zero failure mode.
func (t *aoTask) Perform(tb worker.Toolbox) {
	toolbox := tb.(*Toolbox)

	if t.N.LengthSqr() == 0 {
		t.Result = rgb.Black
		return
	}
	n := t.N.Normalize()

	sampleCount := toolbox.Cfg.SampleCount
	if sampleCount <= 0 {
		sampleCount = 80
	}

	var sum float32
	accepted := 0
	for accepted < sampleCount {
		d := math.RandomPointOnSphere(toolbox.RNG)
		dn := d.Dot(n)
		if dn <= 0 {
			continue
		}
		accepted++

		origin := t.P.Add(n.Mul(toolbox.Cfg.ShadowBias))
		seg := math.NewRaySegFromPoints(origin, origin.Add(d.Mul(toolbox.Cfg.RayMaxDistance)))
		if !toolbox.Grid.TraceRay(seg, nil).Hit {
			sum += dn
		}
	}

	occlusion := sum * 2 / float32(sampleCount)
	switch {
	case occlusion < 0:
		occlusion = 0
	case occlusion > 1:
		occlusion = 1
	}

	sky := toolbox.Cfg.Lighting.SkyColorVec()
	t.Result = rgb.FromFloat(
		occlusion*float32(t.Albedo.R)*sky.X,
		occlusion*float32(t.Albedo.G)*sky.Y,
		occlusion*float32(t.Albedo.B)*sky.Z,
	)
}
