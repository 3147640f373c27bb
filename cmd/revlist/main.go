package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/revlist/internal/app/run"
	"github.com/John-Robertt/revlist/internal/config"
	"github.com/John-Robertt/revlist/internal/domain"
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "run":
		if code := runCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printRunUsage()
			return 0
		}
	}

	cli, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printRunUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		emitReport(reportForConfigError(err))
		return 1
	}

	progressW, interactive := pickProgressWriter()
	if progressW == nil {
		progressW = os.Stderr
	}
	// 重复明细总是输出（stderr），阶段进度只在交互终端输出。
	obs := newProgressUI(progressW, interactive)

	rr, err := run.ExecuteWithObserver(context.Background(), eff, obs)
	emitReport(rr)
	if err != nil {
		return 1
	}
	if interactive {
		emitLocations(progressW, eff)
	}
	return 0
}

func parseRunArgs(args []string) (config.CLIArgs, error) {
	cli := config.CLIArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]

		flag, val, hasVal := strings.Cut(a, "=")
		var dst *string
		switch flag {
		case "--in", "--input":
			dst = &cli.Input
		case "--tex":
			dst = &cli.Tex
		case "--discarded":
			dst = &cli.Discarded
		}

		switch {
		case dst != nil:
			if !hasVal {
				if i+1 >= len(args) {
					return config.CLIArgs{}, fmt.Errorf("%s 需要一个值", flag)
				}
				i++
				val = args[i]
			}
			if strings.TrimSpace(val) == "" {
				return config.CLIArgs{}, fmt.Errorf("%s 不能为空", flag)
			}
			if *dst != "" {
				return config.CLIArgs{}, fmt.Errorf("重复的 %s：%q 与 %q", flag, *dst, val)
			}
			*dst = val
		case strings.HasPrefix(a, "-"):
			return config.CLIArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			// 位置参数等同于 --in。
			if cli.Input != "" {
				return config.CLIArgs{}, fmt.Errorf("重复的输入文件：%q 与 %q", cli.Input, a)
			}
			cli.Input = a
		}
	}
	return cli, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  revlist run [input] [--in path] [--tex path] [--discarded path]

命令：
  run    去重并排序审稿人名单，生成 LaTeX 名单与重复记录表

使用 "revlist run --help" 查看详细说明。
`)
}

func printRunUsage() {
	fmt.Fprintf(os.Stdout, `用法：
  revlist run [input] [--in path] [--tex path] [--discarded path]

参数：
  --in         输入表格（CSV/TSV/HTML，需含 given_name 与 family_name 列；默认 %s）
  --tex        LaTeX 名单输出路径（默认 %s）
  --discarded  重复记录 CSV 输出路径（默认 %s）
  -h, --help   显示帮助

未指定的路径依次读取 revlist.json / revlist.yaml（当前目录，可选），最后使用默认值。
`, config.DefaultInput, config.DefaultTex, config.DefaultDiscarded)
}

func emitReport(rr domain.RunReport) {
	if isTTY(os.Stdout) {
		if rr.Failed() {
			fmt.Fprintln(os.Stderr, failStyle.Render("失败："+rr.ErrorMsg))
			return
		}
		fmt.Fprintln(os.Stdout, okStyle.Render(summaryLine(rr)))
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	if rr.Failed() {
		fmt.Fprintf(os.Stderr, "失败：%s\n", rr.ErrorMsg)
		return
	}
	fmt.Fprintln(os.Stderr, summaryLine(rr))
}

func summaryLine(rr domain.RunReport) string {
	return fmt.Sprintf("完成：unique=%d discarded=%d", rr.Summary.Unique, rr.Summary.Discarded)
}

func reportForConfigError(err error) domain.RunReport {
	now := time.Now().UTC()
	rr := domain.RunReport{
		StartedAt:  now,
		FinishedAt: now,
		ErrorCode:  config.Code(err),
		ErrorMsg:   err.Error(),
	}
	rr.Finalize()
	return rr
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}

func emitLocations(w io.Writer, eff config.EffectiveConfig) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "tex: %s\n", relOrAbs(eff.Tex))
	fmt.Fprintf(w, "discarded: %s\n", relOrAbs(eff.Discarded))
}

// relOrAbs 尽量输出相对 cwd 的路径（更短），失败则输出绝对路径。
func relOrAbs(p string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(cwd, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
