package canvasrenderer

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt→mm→pt 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	for _, pt := range []float64{0, 0.001, 1, 12, 72, 1000} {
		back := Length{Value: pt, Unit: UnitPT}.ToMM() * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{"1.5mm", 1.5},
		{"0.2cm", 2},
		{"1in", 25.4},
		{" 10PT ", 10 * PtToMm},
	}
	for _, tc := range cases {
		l, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) 失败: %v", tc.in, err)
		}
		if got := l.ToMM(); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseLength(%q).ToMM() = %g, 期望 %g", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "mm", "abc", "-1mm", "0"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应返回错误", bad)
		}
	}
}

func TestLengthString(t *testing.T) {
	if got := (Length{Value: 1.5, Unit: UnitPT}).String(); got != "1.5pt" {
		t.Fatalf("String() = %q", got)
	}
}
