package errors

import (
	"errors"
	"fmt"

	"papertrade/pkg/errors/ecode"
)

// 带业务错误码的error，response层通过DecodeErr还原成code+message
type withCode struct {
	code  int
	msg   string
	cause error
}

func (w *withCode) Error() string {
	if w.cause != nil {
		return fmt.Sprintf("%s: %v", w.msg, w.cause)
	}
	return w.msg
}

func (w *withCode) Unwrap() error { return w.cause }

// WithCode 创建一个带错误码的error
func WithCode(code int, format string, args ...interface{}) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if msg == "" {
		msg = ecode.Text(code)
	}
	return &withCode{code: code, msg: msg}
}

// Wrap 包装底层错误并附加错误码
func Wrap(err error, code int, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		msg = ecode.Text(code)
	}
	return &withCode{code: code, msg: msg, cause: err}
}

// DecodeErr 解析error，返回错误码和提示信息
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, ecode.Text(ecode.Success)
	}
	var w *withCode
	if errors.As(err, &w) {
		return w.code, w.msg
	}
	return ecode.Unknown, err.Error()
}

// Code 提取错误码，非withCode错误返回Unknown
func Code(err error) int {
	code, _ := DecodeErr(err)
	return code
}

// IsCode 判断错误链上是否携带指定错误码
func IsCode(err error, code int) bool {
	return Code(err) == code
}
