package run

import (
	"time"

	"github.com/John-Robertt/revlist/internal/config"
	"github.com/John-Robertt/revlist/internal/domain"
)

// Observer 用于把“运行阶段/重复明细”从核心流程中解耦出来。
//
// 约束：run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段（read/dedupe/sort/write）结束时调用，用于打印阶段统计与耗时。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnDuplicate 在发现一条重复时调用（按遇到顺序），用于提示保留/丢弃了哪一条。
	OnDuplicate(d domain.Duplicate)
}
