package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"covid-dash/internal/logger"
	"covid-dash/internal/table"
)

// 聚合行（World、各大洲、收入分组等）的 iso_code 前缀
const aggregatePrefix = "OWID_"

var splitColumns = []string{"iso_code", "continent", "location", "date"}

// SplitResult：一次拆分写出的文件数量
type SplitResult struct {
	Countries  int      `json:"countries"`
	Continents int      `json:"continents"`
	MapRows    int      `json:"map_rows"`
	Skipped    []string `json:"skipped,omitempty"`
}

// 文档注释：把 OWID 总表拆分为看板使用的分表
// 背景：看板按国家名直接打开 countries-data/<name>.csv，大洲地图读取 continent-data/<continent>.csv 中每个国家的最新一行，
// 首页地图读取 world_map_data.csv；这些文件都由总表派生。
// 约束：聚合行（iso_code 以 OWID_ 开头或 continent 为空）不生成国家分表；名称不能安全作为文件名时跳过并记录；
// 每个文件先写临时文件再改名，监听方不会读到半个文件。
func (p Paths) Split() (SplitResult, error) {
	var res SplitResult
	master, err := table.Load(p.MasterTable())
	if err != nil {
		return res, err
	}
	if miss := master.Missing(splitColumns...); len(miss) > 0 {
		return res, &table.ParseError{Path: master.Path(), Err: fmt.Errorf("missing columns %v", miss)}
	}
	header := master.Columns()

	var order []string
	byLocation := map[string][]int{}
	for i := 0; i < master.Len(); i++ {
		if !isCountry(master, i) {
			continue
		}
		loc := master.String(i, "location")
		if _, ok := byLocation[loc]; !ok {
			order = append(order, loc)
		}
		byLocation[loc] = append(byLocation[loc], i)
	}

	continents := map[string][][]string{}
	var mapRows [][]string
	for _, loc := range order {
		rows := byLocation[loc]
		path, err := p.Country(loc)
		if err != nil {
			res.Skipped = append(res.Skipped, loc)
			logger.L().Warn("split_skip", "location", loc, "reason", "unsafe_name")
			continue
		}
		if err := writeCSV(path, header, rowsOf(master, rows)); err != nil {
			return res, err
		}
		res.Countries++

		latest := latestRow(master, rows)
		cont := master.String(latest, "continent")
		continents[cont] = append(continents[cont], master.Row(latest))
		if v, ok := lastFloat(master, rows, "total_cases"); ok {
			mapRows = append(mapRows, []string{
				master.String(latest, "iso_code"),
				loc,
				strconv.FormatFloat(v, 'f', -1, 64),
			})
		}
	}

	names := make([]string, 0, len(continents))
	for c := range continents {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		path, err := p.Continent(c)
		if err != nil {
			res.Skipped = append(res.Skipped, c)
			continue
		}
		if err := writeCSV(path, header, continents[c]); err != nil {
			return res, err
		}
		res.Continents++
	}

	if err := writeCSV(p.MapTable(), []string{"Code", "Country", "Total Cases"}, mapRows); err != nil {
		return res, err
	}
	res.MapRows = len(mapRows)
	logger.L().Info("split_done", "countries", res.Countries, "continents", res.Continents, "map_rows", res.MapRows, "skipped", len(res.Skipped))
	return res, nil
}

func isCountry(t *table.Table, row int) bool {
	iso := t.String(row, "iso_code")
	return iso != "" && !strings.HasPrefix(iso, aggregatePrefix) && t.String(row, "continent") != ""
}

func rowsOf(t *table.Table, idx []int) [][]string {
	out := make([][]string, len(idx))
	for i, r := range idx {
		out[i] = t.Row(r)
	}
	return out
}

// latestRow：日期最大的一行；日期相同取靠后的一行
func latestRow(t *table.Table, idx []int) int {
	best := idx[0]
	for _, r := range idx[1:] {
		if t.String(r, "date") >= t.String(best, "date") {
			best = r
		}
	}
	return best
}

func lastFloat(t *table.Table, idx []int, col string) (float64, bool) {
	for i := len(idx) - 1; i >= 0; i-- {
		if v, ok := t.Float(idx[i], col); ok {
			return v, true
		}
	}
	return 0, false
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".split-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
