package binding

import "testing"

func TestExpand(t *testing.T) {
	vars := PathVars("fonts/font.000", 32, 126)
	cases := []struct {
		in, want string
	}{
		{"build/${stem}.bmp", "build/font.bmp"},
		{"${dir}/${name}.json", "fonts/font.000.json"},
		{"${stem}-${start}-${end}.${ext}", "font-32-126.000"},
		{"${missing:-x}.png", "x.png"},
		{"plain.bmp", "plain.bmp"},
	}
	for _, tc := range cases {
		got, err := Expand(tc.in, vars)
		if err != nil {
			t.Fatalf("Expand(%q) 失败: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Expand(%q) = %q, 期望 %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandEmptyValueUsesFallback(t *testing.T) {
	got, err := Expand("${ext:-bin}", map[string]string{"ext": ""})
	if err != nil || got != "bin" {
		t.Fatalf("空值应使用 fallback: %q, %v", got, err)
	}
	got, err = Expand("a${ext}b", map[string]string{"ext": ""})
	if err != nil || got != "ab" {
		t.Fatalf("无 fallback 的空值应替换为空串: %q, %v", got, err)
	}
}

func TestExpandUnknownVariable(t *testing.T) {
	if _, err := Expand("${nope}.bmp", PathVars("a.fon", 0, 255)); err == nil {
		t.Fatalf("未知变量应返回错误")
	}
	if _, err := Expand("${}.bmp", nil); err == nil {
		t.Fatalf("空占位符应返回错误")
	}
}
