package renderer

import "github.com/ByLCY/sciatlas/layout"

// Renderer 将合成结果输出为最终文件，例如 BMP/PNG 图集或 PDF 样张。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
