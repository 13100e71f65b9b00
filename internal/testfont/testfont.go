// Package testfont 为测试构造 SCI 位图字体的字节数据。
package testfont

import "encoding/binary"

// Glyph 描述一个待写入的字形，Rows 为按行填充（已按字节对齐）的位图数据。
type Glyph struct {
	Width  int
	Height int
	Rows   []byte
}

// Font 控制生成文件的头部字段。Count 为 0 时使用 len(Glyphs)。
type Font struct {
	Reserved   uint16
	Count      int
	LineHeight int
	Glyphs     []Glyph

	// Offsets 非空时覆盖自动计算的偏移，用于构造越界偏移等异常数据。
	Offsets map[int]uint16
}

// Build 按头部、偏移表、字形记录的顺序生成字节流。
func (f Font) Build() []byte {
	count := f.Count
	if count == 0 {
		count = len(f.Glyphs)
	}
	// 偏移表按声明数量写满，超出 256 的部分也写入。
	out := make([]byte, 6+2*count)
	binary.LittleEndian.PutUint16(out[0:], f.Reserved)
	binary.LittleEndian.PutUint16(out[2:], uint16(count))
	binary.LittleEndian.PutUint16(out[4:], uint16(f.LineHeight))

	for i := 0; i < count; i++ {
		off := uint16(len(out))
		if o, ok := f.Offsets[i]; ok {
			off = o
		}
		binary.LittleEndian.PutUint16(out[6+2*i:], off)
		if i < len(f.Glyphs) {
			g := f.Glyphs[i]
			out = append(out, byte(g.Width), byte(g.Height))
			out = append(out, g.Rows...)
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

// Solid 返回一个 width×height、全部为前景像素的字形。
func Solid(width, height int) Glyph {
	bpr := (width + 7) / 8
	rows := make([]byte, bpr*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rows[y*bpr+x/8] |= 0x80 >> uint(x%8)
		}
	}
	return Glyph{Width: width, Height: height, Rows: rows}
}
