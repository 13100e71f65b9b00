package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/sciatlas/internal/testfont"
	"github.com/ByLCY/sciatlas/scifont"
)

func solidGlyph(index, w, h int) *scifont.Glyph {
	rows := make([][]bool, h)
	for y := range rows {
		rows[y] = make([]bool, w)
		for x := range rows[y] {
			rows[y][x] = true
		}
	}
	return &scifont.Glyph{Index: index, Width: w, Height: h, Pixels: scifont.NewBitmap(w, h, rows)}
}

// TestBuildSizesAndPlacement 断言：图集尺寸为 Σw × max(h)，第 k 个字形的 x 为前面宽度之和。
func TestBuildSizesAndPlacement(t *testing.T) {
	widths := []int{3, 5, 0, 8, 2}
	heights := []int{4, 7, 2, 6, 1}
	glyphs := make([]*scifont.Glyph, len(widths))
	for i := range widths {
		glyphs[i] = solidGlyph(i+10, widths[i], heights[i])
	}
	font := scifont.NewFont(9, glyphs...)

	res, err := Build(font, BuildOptions{})
	if err != nil {
		t.Fatalf("合成失败: %v", err)
	}
	if res.Width != 18 || res.Height != 7 {
		t.Fatalf("图集尺寸错误: %dx%d", res.Width, res.Height)
	}
	if b := res.Image.Bounds(); b.Dx() != 18 || b.Dy() != 7 {
		t.Fatalf("图像尺寸错误: %v", b)
	}
	if res.LineHeight != 9 {
		t.Fatalf("行高错误: %d", res.LineHeight)
	}

	x := 0
	for k, box := range res.Glyphs {
		if box.Index != k+10 || box.X != x || box.Y != 0 || box.Width != widths[k] || box.Height != heights[k] {
			t.Fatalf("字形 %d 位置错误: %+v (期望 x=%d)", k, box, x)
		}
		g := glyphs[k]
		if !g.Placed || g.Placement != (scifont.Rect{X: x, Y: 0, Width: widths[k], Height: heights[k]}) {
			t.Fatalf("字形 %d 未回写 placement: %+v", k, g.Placement)
		}
		x += widths[k]
	}
}

func TestBuildCopiesPixelsAndFillsBackground(t *testing.T) {
	tall := solidGlyph(0, 2, 3)
	short := &scifont.Glyph{Index: 1, Width: 3, Height: 1, Pixels: scifont.NewBitmap(3, 1, [][]bool{{true, false, true}})}
	res, err := Build(scifont.NewFont(3, tall, short), BuildOptions{})
	if err != nil {
		t.Fatalf("合成失败: %v", err)
	}

	want := []string{
		"XXX.X",
		"XX...",
		"XX...",
	}
	for y, row := range want {
		for x, ch := range row {
			got := res.Image.ColorIndexAt(x, y) == 1
			if got != (ch == 'X') {
				t.Fatalf("像素 (%d,%d) 错误: got fg=%v", x, y, got)
			}
		}
	}
	fg := res.Image.At(0, 0)
	if r, g, b, _ := fg.RGBA(); r != 0 || g != 0 || b != 0 {
		t.Fatalf("前景色应为黑色")
	}
	bg := res.Image.At(4, 2)
	if r, g, b, _ := bg.RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("背景色应为白色")
	}
}

func TestBuildCustomColors(t *testing.T) {
	fg := Color{R: 255}
	bg := Color{B: 255}
	res, err := Build(scifont.NewFont(1, solidGlyph(0, 1, 1)), BuildOptions{Foreground: &fg, Background: &bg})
	if err != nil {
		t.Fatalf("合成失败: %v", err)
	}
	if got := res.Image.Palette[1]; got != fg.RGBA() {
		t.Fatalf("前景色错误: %v", got)
	}
	if got := res.Image.Palette[0]; got != bg.RGBA() {
		t.Fatalf("背景色错误: %v", got)
	}
}

func TestBuildZeroGlyphs(t *testing.T) {
	res, err := Build(scifont.NewFont(8), BuildOptions{})
	if err != nil {
		t.Fatalf("空字体不应失败: %v", err)
	}
	if res.Width != 0 || res.Height != 0 || !res.Image.Bounds().Empty() {
		t.Fatalf("空字体应生成 0×0 图像，实际 %dx%d", res.Width, res.Height)
	}
	if res.Glyphs == nil || len(res.Glyphs) != 0 {
		t.Fatalf("glyphs 应为空切片")
	}
}

func TestBuildRejectsInvalidGlyph(t *testing.T) {
	good := solidGlyph(0, 2, 2)
	cases := map[string]*scifont.Glyph{
		"missing pixels":  {Index: 1, Width: 2, Height: 2},
		"size mismatch":   {Index: 1, Width: 3, Height: 2, Pixels: scifont.NewBitmap(2, 2, nil)},
		"width too large": {Index: 1, Width: 300, Height: 1, Pixels: scifont.NewBitmap(300, 1, nil)},
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			good.Placed = false
			res, err := Build(scifont.NewFont(2, good, bad), BuildOptions{})
			if res != nil {
				t.Fatalf("失败时不应返回部分结果")
			}
			if !errors.Is(err, ErrInvalidGlyphRecord) {
				t.Fatalf("期望 ErrInvalidGlyphRecord，实际 %v", err)
			}
			var ge *GlyphError
			if !errors.As(err, &ge) || ge.Index != 1 {
				t.Fatalf("错误应指向字形 1: %v", err)
			}
			if good.Placed {
				t.Fatalf("失败时不应写回 placement")
			}
		})
	}
}

func TestBuildNilFont(t *testing.T) {
	if _, err := Build(nil, BuildOptions{}); !errors.Is(err, ErrInvalidGlyphRecord) {
		t.Fatalf("期望 ErrInvalidGlyphRecord，实际 %v", err)
	}
}

// TestDecodeThenBuild 覆盖从字节流解码到合成的完整流程，包括被跳过的字形进入描述。
func TestDecodeThenBuild(t *testing.T) {
	data := testfont.Font{
		LineHeight: 6,
		Glyphs:     []testfont.Glyph{testfont.Solid(4, 6), testfont.Solid(3, 2), testfont.Solid(5, 5)},
		Offsets:    map[int]uint16{1: 0xFFF0},
	}.Build()
	font, err := scifont.Decode(bytes.NewReader(data), scifont.DefaultOptions())
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	res, err := Build(font, BuildOptions{})
	if err != nil {
		t.Fatalf("合成失败: %v", err)
	}
	if res.Width != 9 || res.Height != 6 {
		t.Fatalf("图集尺寸错误: %dx%d", res.Width, res.Height)
	}
	if box, ok := res.Lookup(2); !ok || box.X != 4 {
		t.Fatalf("字形 2 位置错误: %+v", box)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Index != 1 || res.Skipped[0].Stage != "glyph" {
		t.Fatalf("skipped 记录错误: %+v", res.Skipped)
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "atlas.bmp")
	descPath := DescriptorPath(out)
	if descPath != filepath.Join(dir, "atlas.json") {
		t.Fatalf("描述文件路径错误: %s", descPath)
	}
	if err := WriteDescriptorJSON(res, out, descPath); err != nil {
		t.Fatalf("写入描述失败: %v", err)
	}
	raw, err := os.ReadFile(descPath)
	if err != nil {
		t.Fatalf("读取描述失败: %v", err)
	}
	var desc Descriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		t.Fatalf("描述不是合法 JSON: %v", err)
	}
	if desc.Image != "atlas.bmp" || desc.LineHeight != 6 || len(desc.Glyphs) != 2 || desc.Background != "#ffffff" {
		t.Fatalf("描述内容错误: %+v", desc)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#fff":      {255, 255, 255},
		"#0F62FE":   {15, 98, 254},
		"102030ff":  {16, 32, 48},
		" #000000 ": {0, 0, 0},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) 应失败", bad)
		}
	}
}
