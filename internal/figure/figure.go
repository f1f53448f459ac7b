// 包 figure：由记录表与列选择构造图表模型（折线、箱线、分级设色地图）
// 背景：模型与渲染分离；render 包再把模型翻译为 go-echarts 图表，测试可直接断言模型结构。
package figure

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindLine       Kind = "line"
	KindBox        Kind = "box"
	KindChoropleth Kind = "choropleth"
)

// Theme：固定深色主题
type Theme struct {
	Name       string `json:"name"`
	Background string `json:"background"`
}

// DarkTheme：所有图表共用的深色背景
var DarkTheme = Theme{Name: "chalk", Background: "#222222"}

// TimeAxis：时间轴刻度配置；刻度间隔与格式沿用 plotly 记法（M1 = 每月）
type TimeAxis struct {
	Column       string `json:"column"`
	TickInterval string `json:"tick_interval"`
	TickFormat   string `json:"tick_format"`
	HoverFormat  string `json:"hover_format"`
}

// Point：折线上的一个点；Y 为空表示该日缺失
type Point struct {
	X string   `json:"x"`
	Y *float64 `json:"y"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Box：一列数据的箱线摘要
type Box struct {
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	N          int       `json:"n"`
	Min        float64   `json:"min"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	Max        float64   `json:"max"`
	Mean       float64   `json:"mean"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Outliers   []float64 `json:"outliers,omitempty"`
}

// Region：地图上的一个区域；Value 为空表示该区域无数据
type Region struct {
	Code  string   `json:"code"`
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// GeoOptions：地图外观
type GeoOptions struct {
	Projection  string  `json:"projection"`
	ShowFrame   bool    `json:"show_frame"`
	BorderColor string  `json:"border_color"`
	BorderWidth float64 `json:"border_width"`
}

// ColorScale：线性色阶，范围取自数据自身的最小/最大值
type ColorScale struct {
	Name     string   `json:"name"`
	Colors   []string `json:"colors"`
	Reversed bool     `json:"reversed"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Title    string   `json:"title"`
}

// Figure：不可变图表模型，按 Kind 仅填充对应字段
type Figure struct {
	Kind    Kind        `json:"kind"`
	Title   string      `json:"title,omitempty"`
	Theme   Theme       `json:"theme"`
	XAxis   *TimeAxis   `json:"x_axis,omitempty"`
	Series  []Series    `json:"series,omitempty"`
	Boxes   []Box       `json:"boxes,omitempty"`
	Regions []Region    `json:"regions,omitempty"`
	Scale   *ColorScale `json:"scale,omitempty"`
	Geo     *GeoOptions `json:"geo,omitempty"`
}

// ColumnError：构造图表时引用了表中不存在的列
type ColumnError struct {
	Table   string
	Columns []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("missing columns [%s] in table %s", strings.Join(e.Columns, ", "), e.Table)
}

type columnSource interface {
	Path() string
	Missing(cols ...string) []string
}

func checkColumns(t columnSource, cols ...string) error {
	if miss := t.Missing(cols...); len(miss) > 0 {
		return &ColumnError{Table: t.Path(), Columns: miss}
	}
	return nil
}

func ptr(v float64) *float64 { return &v }
