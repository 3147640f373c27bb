package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/John-Robertt/revlist/internal/app"
	"github.com/John-Robertt/revlist/internal/config"
	"github.com/John-Robertt/revlist/internal/domain"
	"github.com/John-Robertt/revlist/internal/infra/fsx"
	"github.com/John-Robertt/revlist/internal/ingest"
	"github.com/John-Robertt/revlist/internal/render"
)

// OutputError 表示产物无法写出（致命）。返回该错误时两个产物都保持运行前的状态。
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%s：写入 %q 失败：%v", domain.ErrCodeOutputFailed, e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

func (e *OutputError) ErrorCode() string { return domain.ErrCodeOutputFailed }

// Execute 执行一次完整流程：read -> dedupe -> sort -> render -> write。
func Execute(ctx context.Context, eff config.EffectiveConfig) (domain.RunReport, error) {
	return ExecuteWithObserver(ctx, eff, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出阶段信息（由上层决定是否启用）。
//
// 任何错误都是致命的：report 中写入 error_code/error_msg 并原样返回 err；
// 输入错误发生在任何写入之前，输出错误由 fsx.WriteFilesAtomic 保证不留下半成品。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, obs Observer) (domain.RunReport, error) {
	rr := domain.RunReport{
		Input:     eff.Input,
		Tex:       eff.Tex,
		Discarded: eff.Discarded,
		StartedAt: time.Now().UTC(),
	}

	if obs != nil {
		obs.OnStart(eff)
	}

	readStarted := time.Now()
	names, err := ingest.Read(eff.Input)
	if err != nil {
		return failed(rr, err)
	}
	if obs != nil {
		obs.OnPhaseDone("read", map[string]any{"rows": len(names)}, time.Since(readStarted))
	}

	dedupeStarted := time.Now()
	unique, dups := app.Dedupe(names)
	if obs != nil {
		for _, d := range dups {
			obs.OnDuplicate(d)
		}
		obs.OnPhaseDone("dedupe", map[string]any{
			"unique":    len(unique),
			"discarded": len(dups),
		}, time.Since(dedupeStarted))
	}

	sortStarted := time.Now()
	sorted := app.SortUnique(unique)
	if obs != nil {
		obs.OnPhaseDone("sort", map[string]any{"names": len(sorted)}, time.Since(sortStarted))
	}

	writeStarted := time.Now()
	tex := render.LaTeX(sorted)
	discarded, err := render.DiscardedCSV(dups)
	if err != nil {
		return failed(rr, &OutputError{Path: eff.Discarded, Err: err})
	}

	// 落盘前最后一次检查取消；进入提交后不再中断，交给 WriteFilesAtomic 保证原子性。
	if err := ctx.Err(); err != nil {
		return failed(rr, err)
	}

	if err := fsx.WriteFilesAtomic([]fsx.File{
		{Path: eff.Tex, Data: tex},
		{Path: eff.Discarded, Data: discarded},
	}); err != nil {
		oe := &OutputError{Path: eff.Tex, Err: err}
		var ce *fsx.CommitError
		if errors.As(err, &ce) {
			oe = &OutputError{Path: ce.Path, Err: ce.Err}
		}
		return failed(rr, oe)
	}
	if obs != nil {
		obs.OnPhaseDone("write", map[string]any{"files": 2}, time.Since(writeStarted))
	}

	rr.Names = sorted
	rr.Duplicates = dups
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, nil
}

func failed(rr domain.RunReport, err error) (domain.RunReport, error) {
	rr.ErrorCode = domain.ErrorCode(err)
	rr.ErrorMsg = err.Error()
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, err
}
