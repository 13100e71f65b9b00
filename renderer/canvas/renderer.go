package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/sciatlas/fonts"
	"github.com/ByLCY/sciatlas/layout"
	"github.com/ByLCY/sciatlas/renderer"
)

// 样张版式常量，单位均为毫米。
const (
	pageMargin   = 10.0
	cellPadding  = 2.0
	labelHeight  = 4.0
	headerHeight = 8.0
	gridStroke   = 0.1
	boxStroke    = 0.15
	labelSizePt  = 7.0
	headerSizePt = 9.0
)

// Renderer 使用 github.com/tdewolff/canvas 输出 PDF 样张：每个字形放大绘制在网格单元中，
// 并标注十六进制序号与其在图集中的位置框。
type Renderer struct {
	scale     float64
	columns   int
	title     string
	author    string
	labelFont string

	// injected resources
	fontBlobs map[string][]byte

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the proof-sheet renderer.
type Options struct {
	Scale     float64             // 每个源像素对应的毫米数，默认 1
	Columns   int                 // 每行单元数，默认 16
	Title     string              // PDF 标题
	Author    string              // PDF 作者
	LabelFont string              // 标注字体：注入的字体名或内置字体名
	Fonts     map[string]Resource // 可注入的标注字体
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a proof-sheet renderer with default options.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected label fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		scale:        opts.Scale,
		columns:      opts.Columns,
		title:        opts.Title,
		author:       opts.Author,
		labelFont:    opts.LabelFont,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.columns <= 0 {
		r.columns = 16
	}
	if r.labelFont == "" {
		r.labelFont = fonts.Default
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在使用处回退到内置字体
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

type sheetGeometry struct {
	cellW, cellH float64
	rows         int
	width        float64
	height       float64
}

func (r *Renderer) geometry(result *layout.Result) sheetGeometry {
	maxW, maxH := 1, result.LineHeight
	for _, g := range result.Glyphs {
		maxW = max(maxW, g.Width)
		maxH = max(maxH, g.Height)
	}
	cols := min(r.columns, max(len(result.Glyphs), 1))
	rows := (len(result.Glyphs) + r.columns - 1) / r.columns
	geo := sheetGeometry{
		cellW: float64(maxW)*r.scale + 2*cellPadding,
		cellH: float64(maxH)*r.scale + labelHeight + 2*cellPadding,
		rows:  rows,
	}
	geo.width = 2*pageMargin + float64(cols)*geo.cellW
	geo.height = 2*pageMargin + headerHeight + float64(rows)*geo.cellH
	return geo
}

// Render renders the result into a single-page PDF proof sheet.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Image == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	geo := r.geometry(result)

	var buf bytes.Buffer
	writer := pdf.New(&buf, geo.width, geo.height, nil)
	writer.SetInfo(r.title, "bitmap font atlas", "font, atlas", r.author, "sciatlas")

	c := canvas.New(geo.width, geo.height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与图集保持左上角为原点

	if err := r.drawHeader(ctx, result); err != nil {
		return nil, err
	}
	if err := r.drawCells(ctx, result, geo); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawHeader(ctx *canvas.Context, result *layout.Result) error {
	face, err := r.fontFace(headerSizePt, layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return err
	}
	summary := fmt.Sprintf("%d glyphs  line height %d  atlas %dx%d", len(result.Glyphs), result.LineHeight, result.Width, result.Height)
	if len(result.Skipped) > 0 {
		summary += fmt.Sprintf("  skipped %d", len(result.Skipped))
	}
	line := canvas.NewTextLine(face, summary, canvas.Left)
	ctx.DrawText(pageMargin, pageMargin+face.Metrics().Ascent, line)
	return nil
}

func (r *Renderer) drawCells(ctx *canvas.Context, result *layout.Result, geo sheetGeometry) error {
	label, err := r.fontFace(labelSizePt, layout.Color{R: 90, G: 90, B: 90})
	if err != nil {
		return err
	}
	fg := colorFromLayout(result.Foreground)
	top := pageMargin + headerHeight

	for i, box := range result.Glyphs {
		col, row := i%r.columns, i/r.columns
		x0 := pageMargin + float64(col)*geo.cellW
		y0 := top + float64(row)*geo.cellH

		// 单元格背景
		ctx.SetFillColor(canvas.White)
		ctx.SetStrokeColor(canvas.Hex("#dddddd"))
		ctx.SetStrokeWidth(gridStroke)
		ctx.DrawPath(x0, y0, canvas.Rectangle(geo.cellW, geo.cellH))

		text := canvas.NewTextLine(label, fmt.Sprintf("%02X  x%d", box.Index, box.X), canvas.Left)
		ctx.DrawText(x0+cellPadding, y0+cellPadding+label.Metrics().Ascent, text)

		gx := x0 + cellPadding
		gy := y0 + cellPadding + labelHeight

		// 行高参考线与字形位置框
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(canvas.Hex("#f0c0c0"))
		ctx.SetStrokeWidth(boxStroke)
		if w := float64(box.Width) * r.scale; w > 0 {
			ctx.DrawPath(gx, gy, canvas.Rectangle(w, float64(result.LineHeight)*r.scale))
		}

		ctx.SetFillColor(fg)
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeWidth(0)
		for y := 0; y < box.Height; y++ {
			for x := 0; x < box.Width; x++ {
				if result.Image.ColorIndexAt(box.X+x, box.Y+y) != 1 {
					continue
				}
				ctx.DrawPath(gx+float64(x)*r.scale, gy+float64(y)*r.scale, canvas.Rectangle(r.scale, r.scale))
			}
		}
	}
	return nil
}

func (r *Renderer) fontFace(sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(r.labelFont)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(name)
	data, err := r.loadFontBytes(name)
	if err == nil {
		err = family.LoadFont(data, 0, canvas.FontRegular)
	}
	if err != nil {
		if name == fonts.Default {
			return nil, err
		}
		// 回退到内置字体
		fallback := canvas.NewFontFamily(fonts.Default)
		data, fbErr := fonts.Load(fonts.Default)
		if fbErr != nil {
			return nil, err
		}
		if fbErr := fallback.LoadFont(data, 0, canvas.FontRegular); fbErr != nil {
			return nil, err
		}
		family = fallback
	}
	r.fontFamilies[name] = family
	return family, nil
}

func (r *Renderer) loadFontBytes(name string) ([]byte, error) {
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, nil
	}
	return fonts.Load(name)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
