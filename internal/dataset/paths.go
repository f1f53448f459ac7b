// 包 dataset：数据目录约定（世界地图元数据、OWID 总表、国家与大洲分表）
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"covid-dash/internal/table"
)

const (
	MapFile       = "world_map_data.csv"
	MasterFile    = "owid-covid-data.csv"
	CountriesDir  = "countries-data"
	ContinentsDir = "continent-data"
	WorldLocation = "World"
	csvExt        = ".csv"
)

// Paths：以 DataDir 为根解析各数据文件路径
type Paths struct {
	DataDir string
}

func (p Paths) MapTable() string    { return filepath.Join(p.DataDir, MapFile) }
func (p Paths) MasterTable() string { return filepath.Join(p.DataDir, MasterFile) }

// Country：国家名到分表路径
// 约束：名称来自浏览器点击，含路径分隔符或点段时直接按不存在处理，不触达文件系统
func (p Paths) Country(name string) (string, error) {
	return p.resolve(CountriesDir, name)
}

func (p Paths) Continent(name string) (string, error) {
	return p.resolve(ContinentsDir, name)
}

func (p Paths) resolve(dir, name string) (string, error) {
	path := filepath.Join(p.DataDir, dir, name+csvExt)
	if !SafeName(name) {
		return "", &table.NotFoundError{Path: path}
	}
	return path, nil
}

// SafeName：名称可以安全地作为单个文件名使用
func SafeName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return !strings.HasPrefix(name, "..")
}

// Countries：列出 countries-data 下可用的国家名（排序）
func (p Paths) Countries() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(p.DataDir, CountriesDir))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(n), csvExt) {
			continue
		}
		out = append(out, strings.TrimSuffix(n, filepath.Ext(n)))
	}
	sort.Strings(out)
	return out, nil
}

// DisplayName：逗号前的部分作为页面标题（如 "Korea, South" -> "Korea"）
func DisplayName(country string) string {
	name, _, _ := strings.Cut(country, ",")
	return name
}
