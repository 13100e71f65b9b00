// Package face 将合成后的图集包装为 golang.org/x/image/font.Face，
// 以便用解码出的位图字体直接排印示例文本。
package face

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"

	"github.com/ByLCY/sciatlas/layout"
)

// Options 配置字符到字形序号的映射。
type Options struct {
	// Charmap 非空时按单字节字符集把 rune 编码为字形序号；
	// 为空时小于 256 的 rune 直接作为序号。
	Charmap *charmap.Charmap
	// Fallback 为找不到字形时使用的替代字符，0 表示不替代。
	Fallback rune
}

// Face 是基于图集的 font.Face 实现，所有字形共享一张 alpha 蒙版。
type Face struct {
	mask       *image.Alpha
	boxes      map[int]layout.GlyphBox
	lineHeight int
	opts       Options
}

var _ font.Face = (*Face)(nil)

// New 从合成结果构建 Face。前景像素在蒙版中为不透明，背景为透明。
func New(result *layout.Result, opts Options) *Face {
	f := &Face{boxes: map[int]layout.GlyphBox{}, opts: opts}
	if result == nil {
		f.mask = image.NewAlpha(image.Rectangle{})
		f.lineHeight = 1
		return f
	}
	f.lineHeight = max(result.LineHeight, 1)
	f.mask = image.NewAlpha(image.Rect(0, 0, result.Width, result.Height))
	if img := result.Image; img != nil {
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if img.ColorIndexAt(x, y) == 1 {
					f.mask.SetAlpha(x, y, color.Alpha{A: 0xff})
				}
			}
		}
	}
	for _, box := range result.Glyphs {
		f.boxes[box.Index] = box
	}
	return f
}

func (f *Face) lookup(r rune) (layout.GlyphBox, bool) {
	if box, ok := f.boxes[f.index(r)]; ok {
		return box, true
	}
	if f.opts.Fallback != 0 && f.opts.Fallback != r {
		box, ok := f.boxes[f.index(f.opts.Fallback)]
		return box, ok
	}
	return layout.GlyphBox{}, false
}

func (f *Face) index(r rune) int {
	if f.opts.Charmap != nil {
		b, ok := f.opts.Charmap.EncodeRune(r)
		if !ok {
			return -1
		}
		return int(b)
	}
	if r < 0 || r > 0xff {
		return -1
	}
	return int(r)
}

// Close implements font.Face.
func (f *Face) Close() error { return nil }

// Glyph implements font.Face. 字形顶部位于 dot.Y - Ascent。
func (f *Face) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	box, ok := f.lookup(r)
	if !ok {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	x := dot.X.Round()
	y := dot.Y.Round() - f.lineHeight
	dr = image.Rect(x, y, x+box.Width, y+box.Height)
	return dr, f.mask, image.Pt(box.X, box.Y), fixed.I(box.Width), true
}

// GlyphBounds implements font.Face.
func (f *Face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	box, ok := f.lookup(r)
	if !ok {
		return fixed.Rectangle26_6{}, 0, false
	}
	bounds = fixed.R(0, -f.lineHeight, box.Width, box.Height-f.lineHeight)
	return bounds, fixed.I(box.Width), true
}

// GlyphAdvance implements font.Face.
func (f *Face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	box, ok := f.lookup(r)
	if !ok {
		return 0, false
	}
	return fixed.I(box.Width), true
}

// Kern implements font.Face. 位图字体不含字距信息。
func (f *Face) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

// Metrics implements font.Face.
func (f *Face) Metrics() font.Metrics {
	h := fixed.I(f.lineHeight)
	return font.Metrics{
		Height:    h,
		Ascent:    h,
		Descent:   0,
		XHeight:   h,
		CapHeight: h,
	}
}

// RenderSample 用 f 排印 text，每个换行符开始新的一行，返回以 bg 填充的图像。
func RenderSample(f *Face, text string, fg, bg color.Color) *image.RGBA {
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(f, line).Ceil())
	}
	tallest := 0
	for _, box := range f.boxes {
		tallest = max(tallest, box.Height)
	}
	height := (len(lines)-1)*f.lineHeight + max(f.lineHeight, tallest)

	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: f}
	for i, line := range lines {
		d.Dot = fixed.P(0, (i+1)*f.lineHeight)
		d.DrawString(line)
	}
	return dst
}
