package utils

import "fmt"

// ValidationError 表示请求输入无效，属于客户端错误
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 创建一个新的ValidationError
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CredentialError 表示没有可用的API密钥，属于客户端错误
type CredentialError struct {
	Message string
}

func (e *CredentialError) Error() string {
	return e.Message
}

// NewCredentialError 创建一个新的CredentialError
func NewCredentialError(message string) error {
	return &CredentialError{Message: message}
}

// RetrievalError 表示音频下载或提取失败
type RetrievalError struct {
	Message string
	Cause   error
}

// Error 实现error接口
func (e *RetrievalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

// Unwrap 支持error chain
func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// NewRetrievalError 创建一个新的RetrievalError
func NewRetrievalError(message string, cause error) error {
	return &RetrievalError{Message: message, Cause: cause}
}

// TranscriptionError 表示语音转写后端调用失败
type TranscriptionError struct {
	Message string
	Cause   error
}

func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}

// NewTranscriptionError 创建一个新的TranscriptionError
func NewTranscriptionError(message string, cause error) error {
	return &TranscriptionError{Message: message, Cause: cause}
}

// TranslationError 表示文本翻译后端调用失败
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// NewTranslationError 创建一个新的TranslationError
func NewTranslationError(message string, cause error) error {
	return &TranslationError{Message: message, Cause: cause}
}

// IsClientError 判断错误是否应归为客户端错误（HTTP 400）
func IsClientError(err error) bool {
	switch err.(type) {
	case *ValidationError, *CredentialError:
		return true
	}
	return false
}
