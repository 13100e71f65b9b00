package face

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var charmaps = map[string]*charmap.Charmap{
	"cp437":        charmap.CodePage437,
	"ibm437":       charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"ibm850":       charmap.CodePage850,
	"cp866":        charmap.CodePage866,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-15":  charmap.ISO8859_15,
	"cp1250":       charmap.Windows1250,
	"windows-1250": charmap.Windows1250,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"koi8-r":       charmap.KOI8R,
}

// LookupCharmap 按名称查找单字节字符集，名称不区分大小写；空名称返回 nil。
func LookupCharmap(name string) (*charmap.Charmap, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, nil
	}
	cm, ok := charmaps[key]
	if !ok {
		return nil, fmt.Errorf("未知字符集：%s", name)
	}
	return cm, nil
}
