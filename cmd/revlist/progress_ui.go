package main

import (
	"fmt"
	"io"
	"time"

	"github.com/John-Robertt/revlist/internal/app/run"
	"github.com/John-Robertt/revlist/internal/config"
	"github.com/John-Robertt/revlist/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 把 run 层事件转成 stderr 上的一行行提示。
//
// - 重复明细总是输出：操作者需要知道保留了哪一条、丢弃了哪一条
// - 配置与阶段统计只在交互终端输出（phases=true）
type progressUI struct {
	w      io.Writer
	phases bool

	startedAt time.Time
}

func newProgressUI(w io.Writer, phases bool) *progressUI {
	return &progressUI{w: w, phases: phases}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	p.startedAt = time.Now()
	if !p.phases {
		return
	}

	fmt.Fprintf(p.w, "[%s] revlist run\n", p.startedAt.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  input: %s\n", eff.Input)
	fmt.Fprintf(p.w, "  tex: %s\n", eff.Tex)
	fmt.Fprintf(p.w, "  discarded: %s\n", eff.Discarded)
	if eff.ConfigFile != "" {
		fmt.Fprintf(p.w, "  config: %s\n", eff.ConfigFile)
	} else {
		fmt.Fprintln(p.w, "  config: (无，使用 CLI 与默认值)")
	}
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	if !p.phases {
		return
	}

	switch name {
	case "read":
		fmt.Fprintf(p.w, "读取: rows=%d (%s)\n", intField(fields, "rows"), formatShortDuration(dur))
	case "dedupe":
		fmt.Fprintf(p.w, "去重: unique=%d discarded=%d (%s)\n",
			intField(fields, "unique"), intField(fields, "discarded"), formatShortDuration(dur),
		)
	case "sort":
		fmt.Fprintf(p.w, "排序: names=%d (%s)\n", intField(fields, "names"), formatShortDuration(dur))
	case "write":
		fmt.Fprintf(p.w, "写入: files=%d (%s) 总耗时 %s\n",
			intField(fields, "files"), formatShortDuration(dur), formatShortDuration(time.Since(p.startedAt)),
		)
	default:
		// 兜底：未知阶段也不要静默（便于调试/演进）。
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}
}

func (p *progressUI) OnDuplicate(d domain.Duplicate) {
	fmt.Fprintln(p.w, formatDuplicate(d))
}

func formatDuplicate(d domain.Duplicate) string {
	return fmt.Sprintf("重复：保留 %q，丢弃 %q（第 %d 行）",
		d.Kept.String(), d.Removed.String(), d.Removed.Row,
	)
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	switch x := fields[key].(type) {
	case int:
		return x
	case int64:
		return int(x)
	default:
		return 0
	}
}
