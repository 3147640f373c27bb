package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/John-Robertt/revlist/internal/domain"
)

const (
	ColumnGiven  = "given_name"
	ColumnFamily = "family_name"
)

// Error 是读取阶段的结构化错误（InputError）。致命：出现时不得写出任何产物。
type Error struct {
	Code   string
	Path   string
	Column string // 仅 input_missing_column 时非空（多个缺失列以 ", " 连接）
	Err    error
}

func (e *Error) Error() string {
	switch e.Code {
	case domain.ErrCodeInputNotFound:
		return fmt.Sprintf("%s：输入文件 %q 不存在", e.Code, e.Path)
	case domain.ErrCodeInputMissingColumn:
		return fmt.Sprintf("%s：输入文件 %q 的表头缺少必需列 %s", e.Code, e.Path, e.Column)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：输入文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：输入文件 %q 无效", e.Code, e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorCode() string { return e.Code }

// Read 读取输入表格，按原始顺序返回每一行的 given_name / family_name。
//
// 规则：
// - 格式按扩展名选择：.html/.htm 读第一个 <table>；.tsv 为制表符分隔；其余按 CSV 读取（分隔符由表头嗅探）
// - 文件必须是 UTF-8（允许 BOM）
// - 表头大小写/首尾空白不敏感；其他列忽略
// - 不跳过任何数据行（空字段也保留），保证 unique + discarded == 行数
func Read(path string) ([]domain.Name, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Code: domain.ErrCodeInputNotFound, Path: path, Err: err}
		}
		return nil, &Error{Code: domain.ErrCodeInputInvalid, Path: path, Err: err}
	}
	if !utf8.Valid(b) {
		return nil, &Error{Code: domain.ErrCodeInputInvalid, Path: path, Err: errors.New("内容不是合法的 UTF-8")}
	}

	var names []domain.Name
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		names, err = parseHTML(b)
	case ".tsv":
		names, err = parseCSV(b, '\t')
	default:
		names, err = parseCSV(b, sniffComma(b))
	}
	if err != nil {
		var ie *Error
		if errors.As(err, &ie) {
			ie.Path = path
			return nil, ie
		}
		return nil, &Error{Code: domain.ErrCodeInputInvalid, Path: path, Err: err}
	}
	return names, nil
}

type columns struct {
	given  int
	family int
}

// locate 在表头中查找两个必需列；缺失时返回 input_missing_column。
func locate(header []string) (columns, error) {
	cols := columns{given: -1, family: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case ColumnGiven:
			if cols.given < 0 {
				cols.given = i
			}
		case ColumnFamily:
			if cols.family < 0 {
				cols.family = i
			}
		}
	}

	missing := make([]string, 0, 2)
	if cols.given < 0 {
		missing = append(missing, ColumnGiven)
	}
	if cols.family < 0 {
		missing = append(missing, ColumnFamily)
	}
	if len(missing) > 0 {
		return columns{}, &Error{Code: domain.ErrCodeInputMissingColumn, Column: strings.Join(missing, ", ")}
	}
	return cols, nil
}

func (c columns) name(cells []string, row int) domain.Name {
	return domain.Name{
		Given:  cell(cells, c.given),
		Family: cell(cells, c.family),
		Row:    row,
	}
}

// cell 容忍短行：缺失的单元格视为空串。
func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}
