// Package raster 将图集编码为常见位图格式。
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ByLCY/sciatlas/layout"
	"github.com/ByLCY/sciatlas/renderer"
)

// Format 是输出图像格式。
type Format string

const (
	BMP  Format = "bmp"
	PNG  Format = "png"
	GIF  Format = "gif"
	TIFF Format = "tiff"
)

// ParseFormat 解析格式名称（大小写不敏感，允许带点的扩展名）。
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "", "bmp", "dib":
		return BMP, nil
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("不支持的图像格式：%s", name)
	}
}

// FormatFromPath 根据文件扩展名推断格式，无扩展名时使用 BMP。
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode 以指定格式写出图像。
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case BMP, "":
		return bmp.Encode(w, img)
	case PNG:
		return png.Encode(w, img)
	case GIF:
		return gif.Encode(w, img, nil)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("不支持的图像格式：%s", format)
	}
}

// Options 配置位图渲染器。
type Options struct {
	Format Format
}

// Renderer 将图集编码为位图字节。
type Renderer struct {
	format Format
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 创建位图渲染器，Format 为空时使用 BMP。
func New(opts Options) *Renderer {
	format := opts.Format
	if format == "" {
		format = BMP
	}
	return &Renderer{format: format}
}

// Render 编码合成结果中的图集。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Image == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	var img image.Image = result.Image
	// PNG/GIF 编码器不接受 0×0 图像，空图集改写为 1×1 背景。
	if result.Image.Bounds().Empty() && (r.format == PNG || r.format == GIF) {
		blank := image.NewPaletted(image.Rect(0, 0, 1, 1), result.Image.Palette)
		img = blank
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, r.format); err != nil {
		return nil, fmt.Errorf("编码 %s 失败: %w", r.format, err)
	}
	return buf.Bytes(), nil
}
