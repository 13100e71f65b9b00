package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/sciatlas/binding"
	"github.com/ByLCY/sciatlas/dsl"
	"github.com/ByLCY/sciatlas/face"
	"github.com/ByLCY/sciatlas/layout"
	canvasrenderer "github.com/ByLCY/sciatlas/renderer/canvas"
	"github.com/ByLCY/sciatlas/renderer/raster"
	"github.com/ByLCY/sciatlas/scifont"
)

// config 描述一次字体转换。
type config struct {
	input      string
	output     string
	descriptor string
	start, end int
	foreground string
	background string
	format     string
	proof      string
	proofScale string
	proofCols  int
	sample     string
	sampleOut  string
	charmap    string
	dump       bool
	strict     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "", "SCI 字体文件路径")
	flag.StringVar(&cfg.output, "out", "${stem}.bmp", "图集输出路径，支持 ${stem} 等模板变量")
	flag.IntVar(&cfg.start, "start", 0, "起始字形序号")
	flag.IntVar(&cfg.end, "end", 255, "结束字形序号（含）")
	flag.StringVar(&cfg.descriptor, "descriptor", "", "描述文件路径，默认与图集同名的 .json")
	flag.StringVar(&cfg.foreground, "fg", "", "前景色，例如 #000000")
	flag.StringVar(&cfg.background, "bg", "", "背景色，例如 #ffffff")
	flag.StringVar(&cfg.format, "format", "", "图集格式 bmp/png/gif/tiff，默认按扩展名推断")
	flag.StringVar(&cfg.proof, "proof", "", "PDF 样张输出路径")
	flag.StringVar(&cfg.proofScale, "proof-scale", "1mm", "样张中每个源像素的尺寸，支持 mm/cm/in/pt")
	flag.IntVar(&cfg.proofCols, "proof-columns", 16, "样张每行的字形数")
	flag.StringVar(&cfg.sample, "sample", "", "用该字体排印的示例文本")
	flag.StringVar(&cfg.sampleOut, "sample-out", "", "示例图像输出路径，默认 <out>-sample.png")
	flag.StringVar(&cfg.charmap, "charmap", "", "字符集，例如 cp437、latin1")
	flag.BoolVar(&cfg.dump, "dump", false, "以文本形式打印每个字形")
	flag.BoolVar(&cfg.strict, "strict", false, "存在被跳过的字形时视为失败")
	jobPath := flag.String("job", "", "批量任务清单路径")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	scifont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *jobPath != "" {
		n, err := runJob(*jobPath, cfg.strict, os.Stdout)
		if err != nil {
			log.Fatalf("执行任务清单失败: %v", err)
		}
		fmt.Printf("已完成 %d 个任务\n", n)
		return
	}

	if cfg.input == "" {
		log.Fatalf("缺少 -in 参数")
	}
	out, err := run(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("生成图集失败: %v", err)
	}
	fmt.Printf("已生成图集：%s\n", out)
}

// runJob 依次执行清单中的每个任务，返回完成的任务数。
func runJob(path string, strict bool, stdout io.Writer) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("无法打开任务清单 %s: %w", path, err)
	}
	defer file.Close()

	job, err := dsl.ParseNamed(path, file)
	if err != nil {
		return 0, fmt.Errorf("解析任务清单失败: %w", err)
	}
	tasks, err := job.Resolve(filepath.Dir(path))
	if err != nil {
		return 0, err
	}
	for i, task := range tasks {
		cfg := config{
			input:      task.Input,
			output:     task.Output,
			descriptor: task.Descriptor,
			start:      task.Start,
			end:        task.End,
			foreground: task.Foreground,
			background: task.Background,
			format:     task.Format,
			proof:      task.Proof,
			proofScale: task.ProofScale,
			proofCols:  task.ProofColumns,
			sample:     task.Sample,
			sampleOut:  task.SampleOut,
			charmap:    task.Charmap,
			strict:     strict,
		}
		if _, err := run(cfg, stdout); err != nil {
			return i, fmt.Errorf("%s: %s: %w", task.Pos, task.Input, err)
		}
	}
	return len(tasks), nil
}

// run 串联解码、合成与输出，返回图集路径。
func run(cfg config, stdout io.Writer) (string, error) {
	font, err := scifont.DecodeFile(cfg.input, scifont.Options{Start: cfg.start, End: cfg.end})
	if err != nil {
		return "", fmt.Errorf("解码字体失败: %w", err)
	}
	if cfg.dump {
		for _, g := range font.Glyphs() {
			fmt.Fprintln(stdout, g.String())
		}
	}
	if cfg.strict && len(font.Skipped) > 0 {
		return "", fmt.Errorf("存在 %d 个被跳过的字形: %w", len(font.Skipped), font.Err())
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return "", err
	}
	result, err := layout.Build(font, opts)
	if err != nil {
		return "", fmt.Errorf("合成图集失败: %w", err)
	}

	output, err := binding.Expand(cfg.output, binding.PathVars(cfg.input, cfg.start, cfg.end))
	if err != nil {
		return "", fmt.Errorf("展开输出路径失败: %w", err)
	}
	if err := writeAtlas(result, output, cfg.format); err != nil {
		return "", err
	}

	descriptor := cfg.descriptor
	if descriptor == "" {
		descriptor = layout.DescriptorPath(output)
	}
	if err := writeDescriptor(result, output, descriptor); err != nil {
		return "", err
	}

	if cfg.proof != "" {
		if err := writeProof(result, cfg, cfg.proof); err != nil {
			return "", err
		}
	}
	if cfg.sample != "" {
		sampleOut := cfg.sampleOut
		if sampleOut == "" {
			sampleOut = strings.TrimSuffix(output, filepath.Ext(output)) + "-sample.png"
		}
		if err := writeSample(result, cfg.sample, cfg.charmap, sampleOut); err != nil {
			return "", err
		}
	}
	return output, nil
}

func buildOptions(cfg config) (layout.BuildOptions, error) {
	var opts layout.BuildOptions
	if cfg.foreground != "" {
		c, err := layout.ParseColor(cfg.foreground)
		if err != nil {
			return opts, fmt.Errorf("解析前景色失败: %w", err)
		}
		opts.Foreground = &c
	}
	if cfg.background != "" {
		c, err := layout.ParseColor(cfg.background)
		if err != nil {
			return opts, fmt.Errorf("解析背景色失败: %w", err)
		}
		opts.Background = &c
	}
	return opts, nil
}

func writeAtlas(result *layout.Result, output, formatName string) error {
	var (
		format raster.Format
		err    error
	)
	if formatName != "" {
		format, err = raster.ParseFormat(formatName)
	} else {
		format, err = raster.FormatFromPath(output)
	}
	if err != nil {
		return err
	}
	data, err := raster.New(raster.Options{Format: format}).Render(result)
	if err != nil {
		return fmt.Errorf("编码图集失败: %w", err)
	}
	return writeFile(output, data, "图集")
}

func writeDescriptor(result *layout.Result, image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建描述文件目录失败: %w", err)
	}
	if err := layout.WriteDescriptorJSON(result, image, path); err != nil {
		return fmt.Errorf("输出描述文件失败: %w", err)
	}
	return nil
}

func writeProof(result *layout.Result, cfg config, path string) error {
	opts := canvasrenderer.Options{Title: filepath.Base(cfg.input), Columns: cfg.proofCols}
	if cfg.proofScale != "" {
		scale, err := canvasrenderer.ParseLength(cfg.proofScale)
		if err != nil {
			return fmt.Errorf("解析样张缩放失败: %w", err)
		}
		opts.Scale = scale.ToMM()
	}
	r := canvasrenderer.NewRendererWithOptions(opts)
	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 样张失败: %w", err)
	}
	return writeFile(path, data, "PDF 样张")
}

func writeSample(result *layout.Result, text, charmapName, path string) error {
	cm, err := face.LookupCharmap(charmapName)
	if err != nil {
		return err
	}
	format, err := raster.FormatFromPath(path)
	if err != nil {
		return err
	}
	f := face.New(result, face.Options{Charmap: cm, Fallback: '?'})
	defer f.Close()
	img := face.RenderSample(f, text, result.Foreground.RGBA(), result.Background.RGBA())

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建示例目录失败: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("写入示例图像失败: %w", err)
	}
	defer file.Close()
	if err := raster.Encode(file, img, format); err != nil {
		return fmt.Errorf("编码示例图像失败: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte, what string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建%s目录失败: %w", what, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入%s失败: %w", what, err)
	}
	return nil
}
