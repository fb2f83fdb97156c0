// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// 在这里定义叶子错误。
// WARN: 新增错误前请先确认下面已有的错误是否可以复用。
// 命名规则：Err + 相关前缀 + 错误名
var (
	// 数值编解码相关
	ErrOutOfRange        = newBlitzError("value out of range", 100, WithErrorType(InputError))
	ErrOverflow          = newBlitzError("arithmetic overflow", 101)
	ErrInvalidConversion = newBlitzError("invalid conversion", 102, WithErrorType(InputError))
	ErrByteOrder         = newBlitzError("unsupported host byte order", 103)

	// 序列化相关
	ErrDestinationTooSmall = newBlitzError("destination too small", 200, WithErrorType(InputError))
	ErrProbeMismatch       = newBlitzError("size probe does not match value", 201)
	ErrStagedReleased      = newBlitzError("staged payload already released", 202, WithErrorType(InputError))
	ErrUnsupportedType     = newBlitzError("unsupported type", 203, WithErrorType(InputError))
	ErrEncodeFailed        = newBlitzError("encode failed", 204)
	ErrDecodeFailed        = newBlitzError("decode failed", 205)

	// 帧相关
	ErrFrameMalformed     = newBlitzError("malformed frame", 300)
	ErrFrameUnknownMarker = newBlitzError("unknown frame marker", 301)

	// 配置相关
	ErrParameterInvalid = newBlitzError("invalid parameter", 1100, WithErrorType(InputError))

	// 通用
	ErrNotImplemented = newBlitzError("not implemented", 3000)

	// 不要导出该错误，仅用于把未知错误转换为 blitzError。
	errUnexpected = newBlitzError("unexpected error", (1<<16)-1)
)

type errorOption func(*blitzError)

func WithDetail(detail string) errorOption {
	return func(err *blitzError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *blitzError) {
		err.errType = etype
	}
}

type blitzError struct {
	msg     string
	detail  string
	errCode int32
	errType ErrorType
}

func newBlitzError(msg string, code int32, options ...errorOption) blitzError {
	err := blitzError{
		msg:     msg,
		detail:  msg,
		errCode: code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e blitzError) code() int32 {
	return e.errCode
}

func (e blitzError) Error() string {
	return e.msg
}

func (e blitzError) Detail() string {
	return e.detail
}

func (e blitzError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(blitzError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// 多错误的 cause 定义为最后一个错误，保证 merr 的判断仍然有效。
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

// Combine 合并多个错误，nil 会被忽略；全部为 nil 时返回 nil。
func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
