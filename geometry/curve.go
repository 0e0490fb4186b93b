package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	arcLengthDivisions = 200
	tangentDelta       = 0.0001
)

// CatmullRom is an open centripetal Catmull-Rom spline through a list of
// control points. Point and Tangent take the raw spline parameter;
// PointAt and TangentAt take a normalized arc-length parameter.
type CatmullRom struct {
	points  []mgl64.Vec3
	lengths []float64
}

// NewCatmullRom builds a curve through points. At least two points are
// required for a non-degenerate curve.
func NewCatmullRom(points []mgl64.Vec3) *CatmullRom {
	c := &CatmullRom{points: append([]mgl64.Vec3(nil), points...)}
	c.lengths = c.arcLengths(arcLengthDivisions)
	return c
}

// Len returns the number of control points.
func (c *CatmullRom) Len() int {
	return len(c.points)
}

// Length returns the approximate arc length.
func (c *CatmullRom) Length() float64 {
	if len(c.lengths) == 0 {
		return 0
	}
	return c.lengths[len(c.lengths)-1]
}

// Point evaluates the spline at t in [0,1].
func (c *CatmullRom) Point(t float64) mgl64.Vec3 {
	n := len(c.points)
	switch n {
	case 0:
		return mgl64.Vec3{}
	case 1:
		return c.points[0]
	}

	// Endpoints are returned exactly so the last sample lands on the end point.
	if t <= 0 {
		return c.points[0]
	}
	if t >= 1 {
		return c.points[n-1]
	}

	p := float64(n-1) * t
	idx := int(math.Floor(p))
	weight := p - float64(idx)
	if idx >= n-1 {
		idx = n - 2
		weight = 1
	}
	if idx < 0 {
		idx = 0
		weight = 0
	}

	var p0, p3 mgl64.Vec3
	p1 := c.points[idx]
	p2 := c.points[idx+1]
	if idx > 0 {
		p0 = c.points[idx-1]
	} else {
		p0 = p1.Sub(p2.Sub(p1))
	}
	if idx+2 < n {
		p3 = c.points[idx+2]
	} else {
		p3 = p2.Add(p2.Sub(p1))
	}

	dt0 := math.Pow(distSq(p0, p1), 0.25)
	dt1 := math.Pow(distSq(p1, p2), 0.25)
	dt2 := math.Pow(distSq(p2, p3), 0.25)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	var out mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		out[axis] = nonUniformCubic(p0[axis], p1[axis], p2[axis], p3[axis], dt0, dt1, dt2, weight)
	}
	return out
}

// nonUniformCubic evaluates one axis of a Catmull-Rom segment between x1 and
// x2 with knot spacings dt0, dt1, dt2.
func nonUniformCubic(x0, x1, x2, x3, dt0, dt1, dt2, t float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2

	tt := t * t
	return c0 + c1*t + c2*tt + c3*tt*t
}

func distSq(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Tangent returns the unit tangent at spline parameter t.
func (c *CatmullRom) Tangent(t float64) mgl64.Vec3 {
	t1 := math.Max(0, t-tangentDelta)
	t2 := math.Min(1, t+tangentDelta)
	return safeNormalize(c.Point(t2).Sub(c.Point(t1)))
}

// PointAt evaluates the curve at normalized arc length u in [0,1].
func (c *CatmullRom) PointAt(u float64) mgl64.Vec3 {
	return c.Point(c.uToT(u))
}

// TangentAt returns the unit tangent at normalized arc length u.
func (c *CatmullRom) TangentAt(u float64) mgl64.Vec3 {
	return c.Tangent(c.uToT(u))
}

func (c *CatmullRom) arcLengths(divisions int) []float64 {
	lengths := make([]float64, divisions+1)
	last := c.Point(0)
	for i := 1; i <= divisions; i++ {
		cur := c.Point(float64(i) / float64(divisions))
		lengths[i] = lengths[i-1] + cur.Sub(last).Len()
		last = cur
	}
	return lengths
}

// uToT maps a normalized arc length to the spline parameter by binary search
// over the cached cumulative lengths.
func (c *CatmullRom) uToT(u float64) float64 {
	u = math.Max(0, math.Min(1, u))
	total := c.Length()
	if total == 0 {
		return u
	}
	target := u * total

	lo, hi := 0, len(c.lengths)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		switch {
		case c.lengths[mid] < target:
			lo = mid + 1
		case c.lengths[mid] > target:
			hi = mid - 1
		default:
			return float64(mid) / float64(len(c.lengths)-1)
		}
	}
	i := hi
	if i < 0 {
		return 0
	}
	if i >= len(c.lengths)-1 {
		return 1
	}
	before := c.lengths[i]
	segment := c.lengths[i+1] - before
	frac := 0.0
	if segment > 0 {
		frac = (target - before) / segment
	}
	return (float64(i) + frac) / float64(len(c.lengths)-1)
}

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
