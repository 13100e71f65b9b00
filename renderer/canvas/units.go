package canvasrenderer

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 是长度的原始单位。
type Unit int

const (
	UnitMM Unit = iota // millimeters，无单位时的默认值
	UnitCM             // centimeters
	UnitIN             // inches
	UnitPT             // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return "mm"
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// ParseLength 解析带单位的长度（mm、cm、in、pt），无单位按 mm 处理。
// 用于样张中每个源像素的放大尺寸。
func ParseLength(value string) (Length, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitMM
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无效长度 %q: %w", value, err)
	}
	if f <= 0 {
		return Length{}, fmt.Errorf("长度必须为正数：%s", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
