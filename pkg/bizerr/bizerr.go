// Package bizerr 业务错误分类，service 层统一返回，handler 层映射为 HTTP 状态码。
package bizerr

import (
	"context"
	"errors"
	"net/http"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindConflict
	KindPermissionDenied
	KindNotFound
	KindUnauthenticated
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindConflict:
		return "Conflict"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindNotFound:
		return "NotFound"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindUnavailable:
		return "Unavailable"
	default:
		return "Internal"
	}
}

// HTTPStatus 错误类型对应的 HTTP 状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func InvalidArgument(msg string) *Error  { return New(KindInvalidArgument, msg) }
func Conflict(msg string) *Error         { return New(KindConflict, msg) }
func PermissionDenied(msg string) *Error { return New(KindPermissionDenied, msg) }
func NotFound(msg string) *Error         { return New(KindNotFound, msg) }
func Unauthenticated(msg string) *Error  { return New(KindUnauthenticated, msg) }

// Unavailable 存储 / 下游的瞬时错误
func Unavailable(err error) *Error {
	return Wrap(KindUnavailable, err, "服务暂不可用")
}

// KindOf 取错误类型，context 取消 / 超时视为 Unavailable
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message 对外展示的错误信息
func Message(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Msg != "" {
		return be.Msg
	}
	return err.Error()
}
