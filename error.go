package zonelib

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGdalDriverCreate = errors.New("gdal driver create err")
	ErrGdalDriverOpen   = errors.New("gdal driver open err")
	ErrInvalidTif       = errors.New("invalid tif")
	ErrWrongTif         = errors.New("tif bands not enough")
	ErrTifReadFailed    = errors.New("tif read failed")
	ErrTifWriteFailed   = errors.New("tif write failed")
	ErrWrongBandIndex   = errors.New("band index out of range")
	ErrNoValidValues    = errors.New("no valid values in field")
	ErrTableReleased    = errors.New("zone stat table already released")
	ErrKeyMismatch      = errors.New("result key column does not match zoning key field")
	ErrOutfileExists    = errors.New("output file already exists")
	ErrUnknownStatKind  = errors.New("unknown statistic kind")
)

// 字段已存在或无法创建
type SchemaError struct {
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema err on field %q: %s", e.Field, e.Msg)
}

// 输出字段与现有字段冲突，汇入管道拒绝覆盖
type FieldCollisionError struct {
	Field string
}

func (e *FieldCollisionError) Error() string {
	return fmt.Sprintf(ErrColumnExistsTemplate, e.Field)
}

// 请求的字段非法，一次性列出全部无效字段
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf(ErrColumnMissingTemplate, strings.Join(e.Fields, ","))
}

// 写回时目标行已不存在（外部工具并发修改属性表的正常竞争结果）
type RowNotFoundError struct {
	Id int64
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("row %d not found", e.Id)
}

// 区域统计后端计算失败，包装底层原因
type AggregationError struct {
	Raster string
	Stat   StatKind
	Cause  error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("zonal %s on %s failed: %v", e.Stat, e.Raster, e.Cause)
}

func (e *AggregationError) Unwrap() error {
	return e.Cause
}

// 控制文件格式非法或缺少必填键
type ParamFileError struct {
	Path    string
	Missing []string
	Cause   error
}

func (e *ParamFileError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("param file %s missing keys: %s", e.Path, strings.Join(e.Missing, ","))
	}
	return fmt.Sprintf("param file %s unreadable: %v", e.Path, e.Cause)
}

func (e *ParamFileError) Unwrap() error {
	return e.Cause
}
