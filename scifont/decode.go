package scifont

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Options 限定需要解码的字形序号区间（闭区间）。
type Options struct {
	Start int
	End   int
}

// DefaultOptions 返回覆盖全部 0–255 序号的区间。
func DefaultOptions() Options {
	return Options{Start: 0, End: MaxGlyphs - 1}
}

// bounds 将请求区间与 [0, min(255, count-1)] 取交集，lo > hi 表示空集。
func (o Options) bounds(count int) (int, int) {
	lo, hi := o.Start, o.End
	if lo < 0 {
		lo = 0
	}
	if last := min(count, MaxGlyphs) - 1; hi > last {
		hi = last
	}
	return lo, hi
}

// DecodeFile 打开 path 并解码；文件句柄在任何返回路径上都会被关闭。
func DecodeFile(path string, opts Options) (*Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return Decode(f, opts)
}

// Decode 从 r 读取头部与偏移表，再逐个通过绝对偏移解码区间内的字形。
// 单个字形数据截断只会记录到 Font.Skipped，不影响其余字形；
// 头部截断或底层读取失败则整体返回错误。
func Decode(r io.ReadSeeker, opts Options) (*Font, error) {
	if r == nil {
		return nil, ErrSourceUnavailable
	}
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	font := newFont(h)
	lo, hi := opts.bounds(h.Count)
	log := Logger()
	log.Debug("scifont: header",
		"reserved", h.Reserved,
		"declared", h.Declared,
		"count", h.Count,
		"rawHeight", h.RawHeight,
		"lineHeight", h.LineHeight,
		"start", lo,
		"end", hi,
		"size", size)

	for idx := lo; idx <= hi; idx++ {
		g, err := decodeGlyph(r, size, h, idx)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) && errors.Is(err, ErrTruncatedRecord) {
				font.Skipped = append(font.Skipped, de)
				log.Warn("scifont: glyph skipped", "index", idx, "offset", de.Offset, "stage", de.Stage.String(), "row", de.Row, "err", de.Err)
				continue
			}
			return nil, err
		}
		font.add(g)
	}
	return font, nil
}

// ReadHeader 从文件开头读取 6 字节头部与偏移表，并对数量与行高做截断。
// 第一个字段原样保留，不做任何校验。
func ReadHeader(r io.ReadSeeker) (Header, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, readError(StageHeader, -1, -1, 0, err)
	}

	h := Header{
		Reserved:  binary.LittleEndian.Uint16(buf[0:2]),
		Declared:  int(binary.LittleEndian.Uint16(buf[2:4])),
		RawHeight: int(binary.LittleEndian.Uint16(buf[4:6])),
	}
	h.Count = clampCount(h.Declared)
	h.LineHeight = clampLineHeight(h.RawHeight)

	table := make([]byte, OffsetSize*h.Count)
	if _, err := io.ReadFull(r, table); err != nil {
		return Header{}, readError(StageOffsets, -1, -1, HeaderSize, err)
	}
	h.Offsets = make([]int64, h.Count)
	for i := range h.Offsets {
		h.Offsets[i] = int64(binary.LittleEndian.Uint16(table[i*OffsetSize:]))
	}
	return h, nil
}

func decodeGlyph(r io.ReadSeeker, size int64, h Header, idx int) (*Glyph, error) {
	off := h.Offsets[idx]
	if off < h.DataStart() || off+glyphHeaderBytes > size {
		return nil, &DecodeError{
			Stage:  StageGlyph,
			Index:  idx,
			Row:    -1,
			Offset: off,
			Err:    fmt.Errorf("%w: offset outside data region [%d,%d)", ErrTruncatedRecord, h.DataStart(), size),
		}
	}
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	var dim [glyphHeaderBytes]byte
	if _, err := io.ReadFull(r, dim[:]); err != nil {
		return nil, readError(StageGlyph, idx, -1, off, err)
	}
	width, height := int(dim[0]), int(dim[1])
	bytesPerRow := (width + 7) / 8

	bm := newBitmap(width, height)
	row := make([]byte, bytesPerRow)
	for y := 0; y < height; y++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, readError(StageRow, idx, y, off, err)
		}
		for x := 0; x < width; x++ {
			if row[x>>3]&(0x80>>uint(x&7)) != 0 {
				bm.set(x, y)
			}
		}
	}

	return &Glyph{
		Index:  idx,
		Width:  width,
		Height: height,
		Pixels: bm,
		Offset: off,
	}, nil
}

// readError 将短读归类为截断，其余 I/O 错误视为数据源不可用。
func readError(stage Stage, idx, row int, off int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecodeError{Stage: stage, Index: idx, Row: row, Offset: off, Err: ErrTruncatedRecord}
	}
	return &DecodeError{Stage: stage, Index: idx, Row: row, Offset: off, Err: fmt.Errorf("%w: %w", ErrSourceUnavailable, err)}
}

func clampCount(n int) int {
	return max(0, min(n, MaxGlyphs))
}

func clampLineHeight(h int) int {
	return max(MinLineHeight, min(h, MaxLineHeight))
}
