package face

import (
	"image/color"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"

	"github.com/ByLCY/sciatlas/layout"
	"github.com/ByLCY/sciatlas/scifont"
)

func compose(t *testing.T, glyphs ...*scifont.Glyph) *layout.Result {
	t.Helper()
	res, err := layout.Build(scifont.NewFont(2, glyphs...), layout.BuildOptions{})
	if err != nil {
		t.Fatalf("合成失败: %v", err)
	}
	return res
}

func glyphA() *scifont.Glyph {
	return &scifont.Glyph{Index: 'A', Width: 3, Height: 2, Pixels: scifont.NewBitmap(3, 2, [][]bool{{true, false, true}, {false, true, false}})}
}

func TestMetricsUseLineHeight(t *testing.T) {
	f := New(compose(t, glyphA()), Options{})
	m := f.Metrics()
	if m.Height != fixed.I(2) || m.Ascent != fixed.I(2) || m.Descent != 0 {
		t.Fatalf("度量错误: %+v", m)
	}
	if adv, ok := f.GlyphAdvance('A'); !ok || adv != fixed.I(3) {
		t.Fatalf("GlyphAdvance('A') = %v, %v", adv, ok)
	}
	if _, ok := f.GlyphAdvance('B'); ok {
		t.Fatalf("不存在的字形应返回 ok=false")
	}
	if got := font.MeasureString(f, "AAB"); got != fixed.I(6) {
		t.Fatalf("MeasureString = %v, 期望 6", got)
	}
}

func TestRenderSampleDrawsGlyphs(t *testing.T) {
	f := New(compose(t, glyphA()), Options{})
	black := color.RGBA{A: 0xff}
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	img := RenderSample(f, "AA", black, white)
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 2 {
		t.Fatalf("示例尺寸错误: %v", img.Bounds())
	}
	want := []string{"X.XX.X", ".X..X."}
	for y, row := range want {
		for x, ch := range row {
			got := img.RGBAAt(x, y)
			if (ch == 'X') != (got == black) {
				t.Fatalf("像素 (%d,%d) = %v", x, y, got)
			}
		}
	}
}

func TestRenderSampleMultiline(t *testing.T) {
	f := New(compose(t, glyphA()), Options{})
	img := RenderSample(f, "A\nAA", color.Black, color.White)
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Fatalf("多行示例尺寸错误: %v", img.Bounds())
	}
}

func TestCharmapMapping(t *testing.T) {
	g := &scifont.Glyph{Index: 0x82, Width: 1, Height: 1, Pixels: scifont.NewBitmap(1, 1, [][]bool{{true}})}
	res := compose(t, g)

	if _, ok := New(res, Options{}).GlyphAdvance('é'); ok {
		t.Fatalf("无字符集时 é 不应映射到 0x82")
	}
	if _, ok := New(res, Options{Charmap: charmap.CodePage437}).GlyphAdvance('é'); !ok {
		t.Fatalf("CP437 中 é 应映射到 0x82")
	}
}

func TestFallbackRune(t *testing.T) {
	q := &scifont.Glyph{Index: '?', Width: 2, Height: 1, Pixels: scifont.NewBitmap(2, 1, [][]bool{{true, true}})}
	f := New(compose(t, q), Options{Fallback: '?'})
	if adv, ok := f.GlyphAdvance('Z'); !ok || adv != fixed.I(2) {
		t.Fatalf("缺失字形应回退到 '?': %v, %v", adv, ok)
	}
}

func TestLookupCharmap(t *testing.T) {
	cm, err := LookupCharmap("CP437")
	if err != nil || cm != charmap.CodePage437 {
		t.Fatalf("LookupCharmap(CP437) = %v, %v", cm, err)
	}
	if cm, err := LookupCharmap(""); err != nil || cm != nil {
		t.Fatalf("空名称应返回 nil")
	}
	if _, err := LookupCharmap("ebcdic"); err == nil {
		t.Fatalf("未知字符集应返回错误")
	}
}
