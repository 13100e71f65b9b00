package layout

// BuildOptions 配置合成阶段的前景与背景颜色，零值使用黑字白底。
type BuildOptions struct {
	Foreground *Color
	Background *Color
}

var (
	defaultForeground = Color{R: 0, G: 0, B: 0}
	defaultBackground = Color{R: 255, G: 255, B: 255}
)

func (o BuildOptions) colors() (fg, bg Color) {
	fg, bg = defaultForeground, defaultBackground
	if o.Foreground != nil {
		fg = *o.Foreground
	}
	if o.Background != nil {
		bg = *o.Background
	}
	return fg, bg
}
