package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"covid-dash/internal/logger"
	"covid-dash/internal/metrics"
)

// Loader：表加载接口，布局层仅依赖该接口，便于替换为带缓存的实现
type Loader interface {
	Load(path string) (*Table, error)
}

// FileLoader：每次调用都重新读取文件，不做任何缓存
type FileLoader struct{}

func (FileLoader) Load(path string) (*Table, error) { return Load(path) }

// Load：读取逗号分隔文件为 Table
// 异常：文件不存在返回 *NotFoundError；空文件、列数不一致、引号错误、表头重复或为空返回 *ParseError
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.TableLoadsTotal.WithLabelValues("not_found").Inc()
			return nil, &NotFoundError{Path: path}
		}
		metrics.TableLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()
	t, err := Parse(path, f)
	if err != nil {
		metrics.TableLoadsTotal.WithLabelValues("parse_error").Inc()
		logger.L().Debug("table_parse_error", "path", path, "err", err)
		return nil, err
	}
	metrics.TableLoadsTotal.WithLabelValues("ok").Inc()
	logger.L().Debug("table_loaded", "path", path, "rows", t.Len(), "cols", len(t.header))
	return t, nil
}

// Parse：从 reader 解析表格，path 仅用于标识与错误信息
func Parse(path string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: path, Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	// 去掉部分导出工具写入的 UTF-8 BOM
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if strings.TrimSpace(h) == "" {
			return nil, &ParseError{Path: path, Err: errors.New("empty column name")}
		}
		if seen[h] {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("duplicate column %q", h)}
		}
		seen[h] = true
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		rows = append(rows, rec)
	}
	return New(path, header, rows), nil
}
