package domain

import (
	"sort"
	"time"
)

// RunReport 是对外稳定输出（stdout JSON）的结构。
type RunReport struct {
	Input     string `json:"input"`
	Tex       string `json:"tex"`
	Discarded string `json:"discarded"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`

	// Names 是排序后的保留名单（展示形态，与 tex 中的顺序一致）。
	Names      []Name      `json:"names"`
	Duplicates []Duplicate `json:"duplicates"`

	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

type ReportSummary struct {
	Total     int `json:"total"`
	Unique    int `json:"unique"`
	Discarded int `json:"discarded"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) duplicates 稳定排序：按被丢弃行的行号
// 3) summary 由 names/duplicates 计算得出（total 恒等于 unique + discarded）
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Names == nil {
		r.Names = []Name{}
	}
	if r.Duplicates == nil {
		r.Duplicates = []Duplicate{}
	}

	sort.SliceStable(r.Duplicates, func(i, j int) bool {
		return r.Duplicates[i].Removed.Row < r.Duplicates[j].Removed.Row
	})

	r.Summary = ReportSummary{
		Unique:    len(r.Names),
		Discarded: len(r.Duplicates),
	}
	r.Summary.Total = r.Summary.Unique + r.Summary.Discarded
}

// Failed 报告本次运行是否以错误结束。
func (r RunReport) Failed() bool {
	return r.ErrorCode != "" || r.ErrorMsg != ""
}
