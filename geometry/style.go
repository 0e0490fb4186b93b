package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Field-line palette
var (
	StrongLineColor  = HexColor(0x3366ff)
	WeakLineColor    = HexColor(0x00ff99)
	AnomalyLineColor = HexColor(0xff3366)

	lineEmissive         = HexColor(0x112233)
	anomalyEmissiveColor = HexColor(0x331111)
)

const (
	lineOpacity              = 0.4
	anomalyOpacityBoost      = 0.2
	lineEmissiveIntensity    = 0.2
	anomalyEmissiveIntensity = 0.5
	tubeRadiusPerStrength    = 0.003
)

// LineStyle is the material of a field-line tube.
type LineStyle struct {
	Color             mgl32.Vec3
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
	Opacity           float32
	Radius            float64
	Additive          bool
}

// HexColor converts 0xRRGGBB to a normalized RGB vector.
func HexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}

// LerpColor mixes a toward b by t.
func LerpColor(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// FieldLineColor returns the fixed alert color for anomalies, otherwise the
// strong color blended toward the weak color by 1-strength.
func FieldLineColor(strength float64, isAnomaly bool) mgl32.Vec3 {
	if isAnomaly {
		return AnomalyLineColor
	}
	return LerpColor(StrongLineColor, WeakLineColor, float32(1-strength))
}

// FieldLineStyle returns the tube material and radius for spec.
func FieldLineStyle(spec FieldLineSpec) LineStyle {
	style := LineStyle{
		Color:             FieldLineColor(spec.Strength, spec.IsAnomaly),
		Emissive:          lineEmissive,
		EmissiveIntensity: lineEmissiveIntensity,
		Opacity:           lineOpacity,
		Radius:            tubeRadiusPerStrength * spec.Strength,
		Additive:          true,
	}
	if spec.IsAnomaly {
		style.Emissive = anomalyEmissiveColor
		style.EmissiveIntensity = anomalyEmissiveIntensity
		style.Opacity += anomalyOpacityBoost
	}
	return style
}
