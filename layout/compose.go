package layout

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ByLCY/sciatlas/scifont"
)

// ErrInvalidGlyphRecord 表示传入的字形记录不满足合成前提（例如缺少像素数据）。
var ErrInvalidGlyphRecord = errors.New("layout: invalid glyph record")

// GlyphError 指出违反约束的字形。
type GlyphError struct {
	Index  int
	Reason string
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("layout: glyph %d: %s", e.Index, e.Reason)
}

func (e *GlyphError) Unwrap() error { return ErrInvalidGlyphRecord }

// Build 将字形按序号升序水平排列到一张图中：宽度为所有字形宽度之和，
// 高度为最大字形高度，较矮字形下方保留背景色。
// 任一字形不合法时直接返回错误，不产出部分结果，也不修改任何字形。
func Build(font *scifont.Font, opts BuildOptions) (*Result, error) {
	if font == nil {
		return nil, fmt.Errorf("%w: 字体为空", ErrInvalidGlyphRecord)
	}
	fg, bg := opts.colors()
	glyphs := font.Glyphs()

	// 第一遍：校验并计算图集尺寸。
	width, height := 0, 0
	for i, g := range glyphs {
		if err := validateGlyph(i, g); err != nil {
			return nil, err
		}
		width += g.Width
		height = max(height, g.Height)
	}

	// 调色板下标 0 为背景色，新建图像即为全背景。
	img := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{bg.RGBA(), fg.RGBA()})
	boxes := make([]GlyphBox, 0, len(glyphs))

	// 第二遍：逐个复制像素并记录位置。
	x := 0
	for _, g := range glyphs {
		box := GlyphBox{
			Index:  g.Index,
			Width:  g.Width,
			Height: g.Height,
			X:      x,
			Y:      0,
			Offset: g.Offset,
		}
		if r := box.Rectangle(); !r.Empty() {
			draw.Draw(img, r, g.Image(fg.RGBA(), bg.RGBA()), image.Point{}, draw.Src)
		}
		boxes = append(boxes, box)
		x += g.Width
	}

	for i, g := range glyphs {
		if g.Placed {
			continue
		}
		b := boxes[i]
		g.Placement = scifont.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
		g.Placed = true
	}

	scifont.Logger().Debug("layout: composed", "glyphs", len(boxes), "width", width, "height", height)

	return &Result{
		Image:      img,
		Width:      width,
		Height:     height,
		LineHeight: font.LineHeight,
		Foreground: fg,
		Background: bg,
		Glyphs:     boxes,
		Skipped:    skippedFrom(font.Skipped),
	}, nil
}

func validateGlyph(pos int, g *scifont.Glyph) error {
	if g == nil {
		return &GlyphError{Index: pos, Reason: "字形记录为空"}
	}
	if g.Width < 0 || g.Width > 255 || g.Height < 0 || g.Height > 255 {
		return &GlyphError{Index: g.Index, Reason: fmt.Sprintf("尺寸 %dx%d 超出 0-255", g.Width, g.Height)}
	}
	if g.Pixels == nil {
		return &GlyphError{Index: g.Index, Reason: "缺少像素数据"}
	}
	if n := g.Pixels.Len(); n != g.Width*g.Height || g.Pixels.Bounds() != image.Rect(0, 0, g.Width, g.Height) {
		return &GlyphError{Index: g.Index, Reason: fmt.Sprintf("像素数量 %d 与尺寸 %dx%d 不一致", n, g.Width, g.Height)}
	}
	return nil
}
