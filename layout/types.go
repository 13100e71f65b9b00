package layout

// 该文件定义合成结果与描述文件结构，供合成、渲染与 JSON 输出共用。

import (
	"image"

	"github.com/ByLCY/sciatlas/scifont"
)

// Result 保存合成后的图集与每个字形的位置。
type Result struct {
	Image      *image.Paletted `json:"-"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	LineHeight int             `json:"lineHeight"`
	Foreground Color           `json:"foreground"`
	Background Color           `json:"background"`
	Glyphs     []GlyphBox      `json:"glyphs"`
	Skipped    []SkippedGlyph  `json:"skipped,omitempty"`
}

// GlyphBox 记录单个字形在图集中的矩形（像素），Y 恒为 0。
type GlyphBox struct {
	Index  int   `json:"index"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Offset int64 `json:"offset"`
}

// Rectangle 返回字形在图集中的 image.Rectangle。
func (b GlyphBox) Rectangle() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// SkippedGlyph 记录解码阶段被跳过的字形，便于在描述文件中排查。
type SkippedGlyph struct {
	Index  int    `json:"index"`
	Offset int64  `json:"offset"`
	Stage  string `json:"stage"`
	Row    int    `json:"row,omitempty"`
	Error  string `json:"error"`
}

func skippedFrom(errs []*scifont.DecodeError) []SkippedGlyph {
	if len(errs) == 0 {
		return nil
	}
	out := make([]SkippedGlyph, 0, len(errs))
	for _, e := range errs {
		s := SkippedGlyph{
			Index:  e.Index,
			Offset: e.Offset,
			Stage:  e.Stage.String(),
			Error:  e.Error(),
		}
		if e.Row >= 0 {
			s.Row = e.Row
		}
		out = append(out, s)
	}
	return out
}

// Lookup 按序号查找字形位置。
func (r *Result) Lookup(index int) (GlyphBox, bool) {
	if r == nil {
		return GlyphBox{}, false
	}
	for _, b := range r.Glyphs {
		if b.Index == index {
			return b, true
		}
	}
	return GlyphBox{}, false
}
