package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// RGBA 转换为不透明的 color.RGBA。
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}

// Hex 返回 #rrggbb 形式。
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor 解析 #rgb、#rrggbb 或 #rrggbbaa（忽略透明度）。
func ParseColor(value string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), "#")
	for _, ch := range raw {
		if !strings.ContainsRune("0123456789abcdefABCDEF", ch) {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
	}
	switch len(raw) {
	case 3:
		return Color{
			R: mustHex(strings.Repeat(string(raw[0]), 2)),
			G: mustHex(strings.Repeat(string(raw[1]), 2)),
			B: mustHex(strings.Repeat(string(raw[2]), 2)),
		}, nil
	case 6, 8:
		return Color{
			R: mustHex(raw[0:2]),
			G: mustHex(raw[2:4]),
			B: mustHex(raw[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}
