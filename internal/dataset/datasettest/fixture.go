// 包 datasettest：测试用的小型数据目录（三个国家、两个大洲、世界汇总）
package datasettest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"covid-dash/internal/dataset"
)

// Columns：国家分表与总表共用的列
var Columns = []string{
	"iso_code", "continent", "location", "date",
	"total_cases", "new_cases", "total_deaths", "new_deaths",
	"total_tests", "new_tests", "stringency_index",
	"population", "population_density", "median_age", "aged_65_older", "aged_70_older",
	"gdp_per_capita", "life_expectancy",
}

type Location struct {
	ISO       string
	Continent string
	Name      string
	Scale     float64
}

var (
	France  = Location{ISO: "FRA", Continent: "Europe", Name: "France", Scale: 1}
	Germany = Location{ISO: "DEU", Continent: "Europe", Name: "Germany", Scale: 2}
	Korea   = Location{ISO: "KOR", Continent: "Asia", Name: "Korea, South", Scale: 3}
	World   = Location{ISO: "OWID_WRL", Name: dataset.WorldLocation, Scale: 100}
)

var Countries = []Location{France, Germany, Korea}

var Dates = []string{"2020-03-01", "2020-03-02", "2020-03-03", "2020-03-04", "2020-03-05"}

// 世界汇总表最后一天的取值
const (
	WorldTotalCases  = 15000
	WorldTotalDeaths = 1500
	WorldNewCases    = 5000
)

// Rows：按日期生成的确定性数据；第一天 new_tests 留空
func Rows(l Location) [][]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	var out [][]string
	var cases, deaths, tests float64
	for i, d := range Dates {
		n := float64(i + 1)
		cases += l.Scale * n * 10
		deaths += l.Scale * n
		newTests := ""
		if i > 0 {
			tests += l.Scale * n * 100
			newTests = f(l.Scale * n * 100)
		}
		out = append(out, []string{
			l.ISO, l.Continent, l.Name, d,
			f(cases), f(l.Scale * n * 10), f(deaths), f(l.Scale * n),
			f(tests), newTests, f(50 + n),
			f(l.Scale * 1e6), f(l.Scale * 100), "40", "20", "15",
			f(l.Scale * 30000), "80",
		})
	}
	return out
}

// Write：写出完整数据目录并返回路径约定
func Write(tb testing.TB, dir string) dataset.Paths {
	tb.Helper()
	p := dataset.Paths{DataDir: dir}
	var master [][]string
	for _, l := range append(append([]Location{}, Countries...), World) {
		master = append(master, Rows(l)...)
	}
	WriteCSV(tb, p.MasterTable(), Columns, master)

	var mapRows [][]string
	continents := map[string][][]string{}
	for _, l := range Countries {
		rows := Rows(l)
		last := rows[len(rows)-1]
		mapRows = append(mapRows, []string{l.ISO, l.Name, last[4]})
		continents[l.Continent] = append(continents[l.Continent], last)
		path, err := p.Country(l.Name)
		if err != nil {
			tb.Fatal(err)
		}
		WriteCSV(tb, path, Columns, rows)
	}
	WriteCSV(tb, p.MapTable(), []string{"Code", "Country", "Total Cases"}, mapRows)
	for name, rows := range continents {
		path, err := p.Continent(name)
		if err != nil {
			tb.Fatal(err)
		}
		WriteCSV(tb, path, Columns, rows)
	}
	return p
}

// WriteCSV：写出单个 CSV 文件，按需创建目录
func WriteCSV(tb testing.TB, path string, header []string, rows [][]string) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		tb.Fatal(err)
	}
	if err := w.WriteAll(rows); err != nil {
		tb.Fatal(err)
	}
}
