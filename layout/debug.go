package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Descriptor 是图集的描述文件内容：行高、图集尺寸以及每个字形的位置。
type Descriptor struct {
	Image      string         `json:"image,omitempty"`
	LineHeight int            `json:"lineHeight"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Foreground string         `json:"foreground"`
	Background string         `json:"background"`
	Glyphs     []GlyphBox     `json:"glyphs"`
	Skipped    []SkippedGlyph `json:"skipped,omitempty"`
}

// NewDescriptor 由合成结果构造描述，image 为图集文件名（只保留文件名部分）。
func NewDescriptor(res *Result, image string) Descriptor {
	glyphs := res.Glyphs
	if glyphs == nil {
		glyphs = []GlyphBox{}
	}
	if image != "" {
		image = filepath.Base(image)
	}
	return Descriptor{
		Image:      image,
		LineHeight: res.LineHeight,
		Width:      res.Width,
		Height:     res.Height,
		Foreground: res.Foreground.Hex(),
		Background: res.Background.Hex(),
		Glyphs:     glyphs,
		Skipped:    res.Skipped,
	}
}

// DescriptorPath 将输出路径的扩展名替换为 .json。
func DescriptorPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".json"
}

// WriteDescriptorJSON 将描述写入 path，image 为对应图集文件路径。
func WriteDescriptorJSON(res *Result, image, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(NewDescriptor(res, image), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
