package layout

import (
	"time"

	"covid-dash/internal/figure"
	"covid-dash/internal/table"

	"github.com/dustin/go-humanize"
)

// Summary：首页三张指标卡的数据
// 背景：取自世界汇总表的最后一个有效值，替代写死的常量，数据更新后卡片随之更新
type Summary struct {
	TotalCases  int64     `json:"total_cases"`
	TotalDeaths int64     `json:"total_deaths"`
	NewCases    int64     `json:"new_cases"`
	Date        time.Time `json:"date"`
}

// Summarize：缺列返回 *figure.ColumnError；列存在但无数值时对应字段为 0
func Summarize(world *table.Table) (Summary, error) {
	if miss := world.Missing("date", "total_cases", "total_deaths", "new_cases"); len(miss) > 0 {
		return Summary{}, &figure.ColumnError{Table: world.Path(), Columns: miss}
	}
	var s Summary
	if v, _, ok := world.LastValue("total_cases"); ok {
		s.TotalCases = int64(v)
	}
	if v, _, ok := world.LastValue("total_deaths"); ok {
		s.TotalDeaths = int64(v)
	}
	if v, row, ok := world.LastValue("new_cases"); ok {
		s.NewCases = int64(v)
		s.Date, _ = world.Time(row, "date")
	}
	return s, nil
}

func (s Summary) TotalCasesText() string  { return humanize.Comma(s.TotalCases) }
func (s Summary) TotalDeathsText() string { return humanize.Comma(s.TotalDeaths) }
func (s Summary) NewCasesText() string    { return humanize.Comma(s.NewCases) }

// NewCasesLabel：如 "New Cases on Oct 26, 2020"；无日期时省略日期
func (s Summary) NewCasesLabel() string {
	if s.Date.IsZero() {
		return "New Cases"
	}
	return "New Cases on " + s.Date.Format("Jan 2, 2006")
}
