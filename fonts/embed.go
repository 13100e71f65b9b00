package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是样张标注使用的默认字体名。
const Default = "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:gomono"、"builtin:gomono" 或直接 "gomono"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(name, "embed:"), "builtin:"), "built-in:")
	clean = strings.ToLower(strings.TrimSuffix(clean, ".ttf"))
	if clean == "" {
		clean = Default
	}
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体", name)
	}
	return data, nil
}
