package scifont

import (
	"errors"
	"fmt"
)

// Sentinel errors for scifont package.
var (
	// ErrSourceUnavailable is returned when the font resource cannot be opened or read.
	ErrSourceUnavailable = errors.New("scifont: source unavailable")

	// ErrTruncatedRecord is returned when a record extends past the available data.
	ErrTruncatedRecord = errors.New("scifont: truncated record")
)

// Stage 标识解码失败发生的阶段。
type Stage int

const (
	StageHeader Stage = iota
	StageOffsets
	StageGlyph
	StageRow
)

func (s Stage) String() string {
	switch s {
	case StageHeader:
		return "header"
	case StageOffsets:
		return "offsets"
	case StageGlyph:
		return "glyph"
	case StageRow:
		return "row"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// DecodeError 描述某个阶段的解码失败。Index/Row 为 -1 表示不适用。
type DecodeError struct {
	Stage  Stage
	Index  int
	Row    int
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	switch e.Stage {
	case StageHeader, StageOffsets:
		return fmt.Sprintf("scifont: %s at offset %d: %v", e.Stage, e.Offset, e.Err)
	case StageRow:
		return fmt.Sprintf("scifont: glyph %d row %d at offset %d: %v", e.Index, e.Row, e.Offset, e.Err)
	default:
		return fmt.Sprintf("scifont: glyph %d at offset %d: %v", e.Index, e.Offset, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Err 合并所有被跳过字形的错误；没有跳过时返回 nil。
func (f *Font) Err() error {
	if f == nil || len(f.Skipped) == 0 {
		return nil
	}
	errs := make([]error, 0, len(f.Skipped))
	for _, e := range f.Skipped {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}
