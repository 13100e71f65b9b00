package dsl

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/sciatlas/binding"
)

// Task 是解析完成、可直接执行的单个字体转换任务。路径均已展开模板并相对 baseDir 解析。
type Task struct {
	Pos          lexer.Position
	Input        string
	Output       string
	Descriptor   string
	Proof        string
	Sample       string
	SampleOut    string
	Charmap      string
	Format       string
	Foreground   string
	Background   string
	ProofScale   string
	ProofColumns int
	Start        int
	End          int
}

// settings 在 defaults 与 font 条目之间逐层覆盖。
type settings struct {
	out, descriptor, proof string
	sample, sampleOut      string
	charmap, format        string
	foreground, background string
	proofScale             string
	start, end, columns    int
}

func defaultSettings() settings {
	return settings{start: 0, end: 255}
}

func (s *settings) apply(props []*Property) error {
	for _, p := range props {
		if err := s.set(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *settings) set(p *Property) error {
	switch p.Key {
	case "range", "start", "end", "proof-columns":
		if p.Value == nil || p.Value.Range == nil {
			return fmt.Errorf("%s: 属性 %s 需要数字", p.Pos, p.Key)
		}
		lo, hi, err := p.Value.Range.Bounds()
		if err != nil {
			return fmt.Errorf("%s: %w", p.Pos, err)
		}
		if lo < 0 || hi < 0 {
			return fmt.Errorf("%s: 属性 %s 不能为负数", p.Pos, p.Key)
		}
		if p.Key != "range" && p.Value.Range.End != nil {
			return fmt.Errorf("%s: 属性 %s 不接受区间", p.Pos, p.Key)
		}
		switch p.Key {
		case "range":
			s.start, s.end = lo, hi
		case "start":
			s.start = lo
		case "end":
			s.end = lo
		case "proof-columns":
			s.columns = lo
		}
		return nil
	}

	text, ok := p.Value.Text()
	if !ok {
		return fmt.Errorf("%s: 属性 %s 需要字符串", p.Pos, p.Key)
	}
	switch p.Key {
	case "out":
		s.out = text
	case "descriptor":
		s.descriptor = text
	case "proof":
		s.proof = text
	case "sample":
		s.sample = text
	case "sample-out":
		s.sampleOut = text
	case "charmap":
		s.charmap = text
	case "format":
		s.format = text
	case "foreground":
		s.foreground = text
	case "background":
		s.background = text
	case "proof-scale":
		s.proofScale = text
	default:
		return fmt.Errorf("%s: 未知属性 %q", p.Pos, p.Key)
	}
	return nil
}

// Resolve 合并 defaults 并为每个 font 条目生成任务，相对路径基于 baseDir。
// 未设置 out 时输出为 ${stem}.<format>，format 缺省为 bmp。
func (j *Job) Resolve(baseDir string) ([]Task, error) {
	if j == nil {
		return nil, fmt.Errorf("任务清单为空")
	}
	if j.Version != "v1" {
		return nil, fmt.Errorf("%s: 不支持的清单版本 %s", j.Pos, j.Version)
	}

	defaults := defaultSettings()
	for _, e := range j.Entries {
		if e.Defaults == nil || e.Defaults.Block == nil {
			continue
		}
		if err := defaults.apply(e.Defaults.Block.Properties); err != nil {
			return nil, err
		}
	}

	var tasks []Task
	for _, e := range j.Entries {
		if e.Font == nil {
			continue
		}
		s := defaults
		if e.Font.Block != nil {
			if err := s.apply(e.Font.Block.Properties); err != nil {
				return nil, err
			}
		}
		task, err := s.task(e.Font, baseDir)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s settings) task(f *FontSection, baseDir string) (Task, error) {
	input := string(f.Path)
	if input == "" {
		return Task{}, fmt.Errorf("%s: font 路径为空", f.Pos)
	}
	vars := binding.PathVars(input, s.start, s.end)

	format := s.format
	if format == "" {
		format = "bmp"
	}
	out := s.out
	if out == "" {
		out = "${stem}." + format
	}

	expand := func(tmpl string) (string, error) {
		if tmpl == "" {
			return "", nil
		}
		v, err := binding.Expand(tmpl, vars)
		if err != nil {
			return "", fmt.Errorf("%s: %w", f.Pos, err)
		}
		return resolvePath(baseDir, v), nil
	}

	t := Task{
		Pos:          f.Pos,
		Input:        resolvePath(baseDir, input),
		Sample:       s.sample,
		Charmap:      s.charmap,
		Format:       s.format,
		Foreground:   s.foreground,
		Background:   s.background,
		ProofScale:   s.proofScale,
		ProofColumns: s.columns,
		Start:        s.start,
		End:          s.end,
	}
	var err error
	if t.Output, err = expand(out); err != nil {
		return Task{}, err
	}
	if t.Descriptor, err = expand(s.descriptor); err != nil {
		return Task{}, err
	}
	if t.Proof, err = expand(s.proof); err != nil {
		return Task{}, err
	}
	if t.SampleOut, err = expand(s.sampleOut); err != nil {
		return Task{}, err
	}
	return t, nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
