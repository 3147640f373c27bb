package domain

import "errors"

const (
	ErrCodeInputNotFound      = "input_not_found"
	ErrCodeInputMissingColumn = "input_missing_column"
	ErrCodeInputInvalid       = "input_invalid"
	ErrCodeOutputFailed       = "output_failed"
	ErrCodeConfigInvalid      = "config_invalid"
)

// CodedError 由各阶段的结构化错误实现，用于在 report 与 CLI 中输出稳定的 error_code。
type CodedError interface {
	error
	ErrorCode() string
}

// ErrorCode 从 err 链中提取 error_code；没有结构化错误时返回空串。
func ErrorCode(err error) string {
	var ce CodedError
	if errors.As(err, &ce) {
		return ce.ErrorCode()
	}
	return ""
}
