package domain

import "strings"

// Name 是输入表格中的一行，只保留 given_name 与 family_name 两列。
//
// 字段保留原始大小写与重音（仅去掉首尾空白），规范化结果只用于比较与排序，不用于展示。
type Name struct {
	Given  string `json:"given_name"`
	Family string `json:"family_name"`

	// Row 是数据行序号（从 1 开始，不含表头），用于在重复报告中定位。
	Row int `json:"row"`
}

// String 按 "Given Family" 拼接（任一侧为空时不留多余空格）。
func (n Name) String() string {
	return strings.TrimSpace(n.Given + " " + n.Family)
}

// Duplicate 记录一次被丢弃的重复：Removed 与更早出现的 Kept 规范化后相同。
type Duplicate struct {
	Kept    Name `json:"kept"`
	Removed Name `json:"removed"`
}
