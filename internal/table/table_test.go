package table

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.csv", "\ufeffdate,location,new_cases\n2020-03-01,France,10\n2020-03-02,France,\n2020-03-03,World,7.5\n")

	tb, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, p, tb.Path())
	assert.Equal(t, []string{"date", "location", "new_cases"}, tb.Columns())
	assert.Equal(t, 3, tb.Len())
	assert.True(t, tb.Has("date"))
	assert.Equal(t, []string{"gdp"}, tb.Missing("date", "gdp"))

	v, ok := tb.Float(0, "new_cases")
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
	_, ok = tb.Float(1, "new_cases")
	assert.False(t, ok, "empty cell is not a number")
	assert.Equal(t, "", tb.String(9, "date"))
	assert.Nil(t, tb.Row(-1))

	d, ok := tb.Time(0, "date")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), d)

	assert.Equal(t, []float64{10, 7.5}, tb.Floats("new_cases"))

	last, row, ok := tb.LastValue("new_cases")
	require.True(t, ok)
	assert.Equal(t, 7.5, last)
	assert.Equal(t, 2, row)
}

func TestColumnsIsACopy(t *testing.T) {
	tb := New("x", []string{"a", "b"}, [][]string{{"1", "2"}})
	cols := tb.Columns()
	cols[0] = "z"
	assert.True(t, tb.Has("a"))
	r := tb.Row(0)
	r[0] = "9"
	assert.Equal(t, "1", tb.String(0, "a"))
}

func TestFilter(t *testing.T) {
	tb := New("m", []string{"location", "v"}, [][]string{{"World", "1"}, {"France", "2"}, {"World", "3"}})
	w, ok := tb.Filter("location", "World")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3}, w.Floats("v"))
	assert.Equal(t, 3, tb.Len(), "source table unchanged")

	_, ok = tb.Filter("continent", "Europe")
	assert.False(t, ok)

	none, ok := tb.Filter("location", "Mars")
	require.True(t, ok)
	assert.Equal(t, 0, none.Len())
}

func TestLoadNotFound(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing.csv")
	_, err := Load(p)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, p, nf.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"ragged":       "a,b\n1,2,3\n",
		"quote":        "a,b\n\"1,2\n",
		"duplicate":    "a,a\n1,2\n",
		"blank column": "a,,b\n1,2,3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name, strings.NewReader(body))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, name, pe.Path)
		})
	}
}

func TestParseHeaderOnly(t *testing.T) {
	tb, err := Parse("h", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tb.Len())
	_, _, ok := tb.LastValue("a")
	assert.False(t, ok)
}

type countingLoader struct {
	n int
}

func (c *countingLoader) Load(path string) (*Table, error) {
	c.n++
	return Load(path)
}

func TestCachingLoader(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "c.csv", "a\n1\n")
	next := &countingLoader{}
	c := NewCachingLoader(next, 8, time.Hour)

	t1, err := c.Load(p)
	require.NoError(t, err)
	t2, err := c.Load(p)
	require.NoError(t, err)
	assert.Same(t, t1, t2)
	assert.Equal(t, 1, next.n)
	assert.Equal(t, 1, c.Len())

	c.Invalidate(p)
	_, err = c.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2, next.n)

	// 内容与大小变化后重新读取
	require.NoError(t, os.WriteFile(p, []byte("a\n1\n2\n"), 0o644))
	t3, err := c.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2, t3.Len())
	assert.Equal(t, 3, next.n)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCachingLoaderNotFound(t *testing.T) {
	c := NewCachingLoader(nil, 0, 0)
	_, err := c.Load(filepath.Join(t.TempDir(), "nope.csv"))
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCachingLoaderKeepsParseError(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "bad.csv", "a,a\n1,2\n")
	c := NewCachingLoader(FileLoader{}, 4, 0)
	_, err := c.Load(p)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, c.Len())
}
