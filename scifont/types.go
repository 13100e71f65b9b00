package scifont

// 该文件定义字体解码结果的数据结构，供解码、合成与描述文件输出共用。

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// 格式常量：头部为 3 个 16 位小端字段，之后是每个字形一个 16 位偏移。
const (
	HeaderSize = 6
	OffsetSize = 2

	MaxGlyphs        = 256
	MinLineHeight    = 1
	MaxLineHeight    = 128
	glyphHeaderBytes = 2
)

// Header 是字体文件头部以及偏移表。
type Header struct {
	Reserved   uint16  // 第一个字段，含义未知，只读取不校验
	Declared   int     // 文件声明的字形数量（未截断）
	Count      int     // 截断到 MaxGlyphs 之后的数量
	RawHeight  int     // 文件声明的行高（未截断）
	LineHeight int     // 截断到 [1,128] 的行高
	Offsets    []int64 // 每个字形记录的绝对偏移，下标即字形序号
}

// DataStart 返回偏移表结束的位置，字形记录不应早于此处。
func (h Header) DataStart() int64 {
	return int64(HeaderSize + OffsetSize*h.Count)
}

// Rect 描述字形在合成图中的位置（像素）。
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle 转换为 image.Rectangle。
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Bitmap 是按行优先存储的 1 位像素网格，解码完成后不再修改。
type Bitmap struct {
	width, height int
	bits          *bitset.BitSet
}

func newBitmap(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		bits:   bitset.New(uint(width * height)),
	}
}

// NewBitmap 从布尔网格构造位图，rows[y][x] 为 true 表示前景像素。
// 行长度不足 width 的部分按背景处理。
func NewBitmap(width, height int, rows [][]bool) *Bitmap {
	b := newBitmap(width, height)
	for y := 0; y < height && y < len(rows); y++ {
		for x := 0; x < width && x < len(rows[y]); x++ {
			if rows[y][x] {
				b.set(x, y)
			}
		}
	}
	return b
}

func (b *Bitmap) set(x, y int) {
	b.bits.Set(uint(y*b.width + x))
}

// At 报告 (x, y) 是否为前景像素，越界时返回 false。
func (b *Bitmap) At(x, y int) bool {
	if b == nil || x < 0 || y < 0 || x >= b.width || y >= b.height {
		return false
	}
	return b.bits.Test(uint(y*b.width + x))
}

// Len 返回像素总数，恒等于 width*height。
func (b *Bitmap) Len() int {
	if b == nil || b.bits == nil {
		return 0
	}
	return int(b.bits.Len())
}

// Count 返回前景像素数量。
func (b *Bitmap) Count() int {
	if b == nil || b.bits == nil {
		return 0
	}
	return int(b.bits.Count())
}

// Bounds 返回位图范围。
func (b *Bitmap) Bounds() image.Rectangle {
	if b == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, b.width, b.height)
}

// Glyph 是一个解码后的字形记录。
type Glyph struct {
	Index  int     `json:"index"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Pixels *Bitmap `json:"-"`
	Offset int64   `json:"offset"`

	// Placement 只在合成阶段写入一次。
	Placement Rect `json:"placement"`
	Placed    bool `json:"-"`
}

// Image 将像素网格转换为双色调色板图像，调色板顺序为 [bg, fg]。
func (g *Glyph) Image(fg, bg color.Color) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, g.Width, g.Height), color.Palette{bg, fg})
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Pixels.At(x, y) {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}

// String 以文本形式输出字形，前景为 █，背景为空格。
func (g *Glyph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %dx%d @%d\n", g.Index, g.Width, g.Height, g.Offset)
	for y := 0; y < g.Height; y++ {
		sb.WriteByte('[')
		for x := 0; x < g.Width; x++ {
			if g.Pixels.At(x, y) {
				sb.WriteString("█")
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// Font 是一次解码会话的结果集合，字形按序号升序保存。
type Font struct {
	Reserved   uint16
	Declared   int
	Count      int
	LineHeight int

	// Skipped 记录因数据截断而被跳过的字形。
	Skipped []*DecodeError

	glyphs []*Glyph
	byIdx  map[int]*Glyph
}

func newFont(h Header) *Font {
	return &Font{
		Reserved:   h.Reserved,
		Declared:   h.Declared,
		Count:      h.Count,
		LineHeight: h.LineHeight,
		byIdx:      map[int]*Glyph{},
	}
}

// add 追加字形；调用方保证按序号升序调用。
func (f *Font) add(g *Glyph) {
	f.glyphs = append(f.glyphs, g)
	f.byIdx[g.Index] = g
}

// Glyphs 返回按序号升序排列的字形，调用方不应修改切片本身。
func (f *Font) Glyphs() []*Glyph {
	if f == nil {
		return nil
	}
	return f.glyphs
}

// Glyph 按序号查找字形。
func (f *Font) Glyph(index int) (*Glyph, bool) {
	if f == nil {
		return nil, false
	}
	g, ok := f.byIdx[index]
	return g, ok
}

// Len 返回成功解码的字形数量。
func (f *Font) Len() int {
	if f == nil {
		return 0
	}
	return len(f.glyphs)
}

// NewFont 由已有字形组装一个 Font，字形按序号排序，重复序号以后者为准。
// 行高按解码时的规则截断。
func NewFont(lineHeight int, glyphs ...*Glyph) *Font {
	f := newFont(Header{LineHeight: clampLineHeight(lineHeight)})
	sorted := make([]*Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g == nil {
			continue
		}
		if _, dup := f.byIdx[g.Index]; dup {
			for i := range sorted {
				if sorted[i].Index == g.Index {
					sorted[i] = g
				}
			}
		} else {
			sorted = append(sorted, g)
		}
		f.byIdx[g.Index] = g
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	f.glyphs = sorted
	f.Declared = len(sorted)
	f.Count = len(sorted)
	return f
}
