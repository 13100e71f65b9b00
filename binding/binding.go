// Package binding 展开任务路径模板中的 ${name} 占位符。
package binding

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// Expand 将 template 中的 ${name} 替换为 vars 中的值；
// ${name:-fallback} 在变量不存在或为空时使用 fallback。
// 变量不存在且没有 fallback 时返回错误。
func Expand(template string, vars map[string]string) (string, error) {
	var firstErr error
	out := exprPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name, fallback, hasFallback := strings.Cut(groups[1], ":-")
		name = strings.TrimSpace(name)
		if name == "" {
			if firstErr == nil {
				firstErr = fmt.Errorf("模板 %q 中存在空占位符", template)
			}
			return match
		}
		if val, ok := vars[name]; ok && (val != "" || !hasFallback) {
			return val
		}
		if hasFallback {
			return fallback
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("模板 %q 引用了未知变量 %s", template, name)
		}
		return match
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// PathVars 返回输入字体路径对应的模板变量：
// stem（去掉扩展名的文件名）、name、dir、ext（不含点）、start、end。
func PathVars(input string, start, end int) map[string]string {
	name := filepath.Base(input)
	ext := filepath.Ext(name)
	return map[string]string{
		"stem":  strings.TrimSuffix(name, ext),
		"name":  name,
		"dir":   filepath.Dir(input),
		"ext":   strings.TrimPrefix(ext, "."),
		"start": strconv.Itoa(start),
		"end":   strconv.Itoa(end),
	}
}
