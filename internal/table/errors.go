package table

import (
	"fmt"
	"io/fs"
)

// NotFoundError：输入文件不存在
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return "table not found: " + e.Path }

// Unwrap：便于调用方使用 errors.Is(err, fs.ErrNotExist)
func (e *NotFoundError) Unwrap() error { return fs.ErrNotExist }

// ParseError：文件存在但不是合法的分隔文本表格
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("table parse %s: %v", e.Path, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }
