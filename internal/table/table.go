// 包 table：把分隔文本文件读取为按列名寻址的只读内存表
package table

import (
	"strconv"
	"strings"
	"time"
)

// 日期列的固定格式（数据集使用 ISO 日期）
const DateLayout = "2006-01-02"

// Table：只读记录表
// 约束：加载后不再修改；Filter 等操作返回新表，底层行切片可共享
type Table struct {
	path   string
	header []string
	index  map[string]int
	rows   [][]string
}

// New：由表头与行构造表，主要供测试与派生表使用
// 约束：行长度必须与表头一致，调用方负责校验
func New(path string, header []string, rows [][]string) *Table {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return &Table{path: path, header: header, index: idx, rows: rows}
}

func (t *Table) Path() string { return t.path }

// Columns：返回表头副本，保持表不可变
func (t *Table) Columns() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Missing：返回 cols 中表内不存在的列名（保持输入顺序）
func (t *Table) Missing(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (t *Table) Len() int { return len(t.rows) }

// Row：返回第 row 行的副本；越界时返回 nil
func (t *Table) Row(row int) []string {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	out := make([]string, len(t.rows[row]))
	copy(out, t.rows[row])
	return out
}

// String：读取单元格文本；列不存在或越界时返回空串
func (t *Table) String(row int, col string) string {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][i]
}

// Float：读取数值单元格；空值或非数值返回 false
func (t *Table) Float(row int, col string) (float64, bool) {
	s := strings.TrimSpace(t.String(row, col))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Time：按 DateLayout 解析日期单元格
func (t *Table) Time(row int, col string) (time.Time, bool) {
	s := strings.TrimSpace(t.String(row, col))
	if s == "" {
		return time.Time{}, false
	}
	v, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return v, true
}

// Floats：返回整列中可解析的数值，跳过空值
func (t *Table) Floats(col string) []float64 {
	if !t.Has(col) {
		return nil
	}
	out := make([]float64, 0, len(t.rows))
	for r := range t.rows {
		if v, ok := t.Float(r, col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Filter：保留 col 列等于 value 的行，返回新表
// 约束：列不存在时返回 false，调用方决定错误类型
func (t *Table) Filter(col, value string) (*Table, bool) {
	i, ok := t.index[col]
	if !ok {
		return nil, false
	}
	var rows [][]string
	for _, r := range t.rows {
		if r[i] == value {
			rows = append(rows, r)
		}
	}
	return &Table{path: t.path, header: t.header, index: t.index, rows: rows}, true
}

// LastValue：自末行向前查找 col 列最后一个数值，同时返回该行号
func (t *Table) LastValue(col string) (float64, int, bool) {
	for r := len(t.rows) - 1; r >= 0; r-- {
		if v, ok := t.Float(r, col); ok {
			return v, r, true
		}
	}
	return 0, -1, false
}
