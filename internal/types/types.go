// Package types defines shared configuration and error types for texprose.
package types

import "errors"

// Config 应用配置
type Config struct {
	Language     string   `json:"language" yaml:"language"`           // 默认语言代码，"auto" 表示自动检测
	MinChars     int      `json:"min_chars" yaml:"min_chars"`         // 参与重复检测的最短单词长度
	Window       int      `json:"window" yaml:"window"`               // 回看窗口（单词数）
	Stopwords    bool     `json:"stopwords" yaml:"stopwords"`         // 是否过滤停用词
	Stemming     bool     `json:"stemming" yaml:"stemming"`           // 是否使用词干提取
	Ignore       []string `json:"ignore" yaml:"ignore"`               // 忽略的单词
	RemoveTokens []string `json:"remove_tokens" yaml:"remove_tokens"` // 检测前移除的标记
	RepeatTag    string   `json:"repeat_tag" yaml:"repeat_tag"`       // 重复单词标签名
	Markers      []string `json:"markers" yaml:"markers"`             // split 命令默认使用的标记
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrInvalidDelimiters ErrorCode = "INVALID_DELIMITERS"
	ErrEmptyMarkerSet    ErrorCode = "EMPTY_MARKER_SET"
	ErrInvalidOptions    ErrorCode = "INVALID_OPTIONS"
	ErrConfig            ErrorCode = "CONFIG_ERROR"
	ErrIO                ErrorCode = "IO_ERROR"
	ErrInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode carried by err, or "" when err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
