package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"", "goregular", "embed:gomono", "builtin:gobold.ttf", "GoRegular"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) 失败: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) 返回空数据", name)
		}
	}
	if _, err := Load("Inter-Regular"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
}
