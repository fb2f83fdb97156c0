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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码，nil 返回 0。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case blitzError:
		return specificErr.code()

	default:
		return errUnexpected.code()
	}
}

// GetErrorType 返回错误的类别；非 blitzError 视为系统错误。
func GetErrorType(err error) ErrorType {
	if merr, ok := errors.Cause(err).(blitzError); ok {
		return merr.errType
	}
	return SystemError
}

// 数值编解码相关
func WrapErrOutOfRange[T any](name string, lower, upper, actual T, msg ...string) error {
	err := wrapFields(ErrOutOfRange,
		bound(name, actual, lower, upper),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrOverflow(op string, msg ...string) error {
	err := wrapFields(ErrOverflow, value("op", op))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrInvalidConversion(from, to any) error {
	return wrapFields(ErrInvalidConversion,
		value("from", from),
		value("to", to),
	)
}

func WrapErrByteOrder(order string) error {
	return wrapFields(ErrByteOrder, value("order", order))
}

// 序列化相关
func WrapErrDestinationTooSmall(required uint64, available int, msg ...string) error {
	err := wrapFields(ErrDestinationTooSmall,
		value("required", required),
		value("available", available),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrProbeMismatch(expected, actual any, msg ...string) error {
	err := wrapFields(ErrProbeMismatch,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrStagedReleased(msg ...string) error {
	err := error(ErrStagedReleased)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrUnsupportedType(typ any, msg ...string) error {
	err := wrapFields(ErrUnsupportedType, value("type", typ))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrEncodeFailed(format string, err error) error {
	if err == nil {
		return nil
	}
	return wrapFieldsWithDesc(ErrEncodeFailed, err.Error(), value("format", format))
}

func WrapErrDecodeFailed(format string, err error) error {
	if err == nil {
		return nil
	}
	return wrapFieldsWithDesc(ErrDecodeFailed, err.Error(), value("format", format))
}

// 帧相关
func WrapErrFrameMalformed(reason string, msg ...string) error {
	err := wrapFields(ErrFrameMalformed, value("reason", reason))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrFrameUnknownMarker(marker any) error {
	return wrapFields(ErrFrameUnknownMarker, value("marker", marker))
}

// 配置相关
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

// 通用
func WrapErrNotImplemented(entry string) error {
	return wrapFields(ErrNotImplemented, value("entry", entry))
}

func wrapFields(err blitzError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err blitzError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}
