// 包 render：把布局树渲染为 HTML，图表叶子经 go-echarts 生成 ECharts 片段
package render

import (
	"html/template"
	"time"

	"covid-dash/internal/figure"
	"covid-dash/internal/table"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
)

const (
	chartWidth  = "100%"
	chartHeight = "400px"
	mapHeight   = "450px"
)

// ECharts 时间轴模板，对应 "%b\n%Y"
const monthTickFormatter = "{MMM}\n{yyyy}"

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func boolPtr(b bool) *bool { return &b }

// chart：按 Figure 类型生成 go-echarts 图表；id 作为 DOM 元素 ID
func chart(id string, f *figure.Figure) snippetRenderer {
	switch f.Kind {
	case figure.KindBox:
		return boxChart(id, f)
	case figure.KindChoropleth:
		return mapChart(id, f)
	default:
		return lineChart(id, f)
	}
}

// Snippet：图表 DIV 与初始化脚本
func Snippet(id string, f *figure.Figure) template.HTML {
	s := chart(id, f).RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}

func initOpts(id string, f *figure.Figure, height string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		ChartID:         id,
		Theme:           f.Theme.Name,
		BackgroundColor: f.Theme.Background,
		Width:           chartWidth,
		Height:          height,
	})
}

func lineChart(id string, f *figure.Figure) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(id, f, chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:        "time",
			SplitNumber: monthSpan(f),
			AxisLabel:   &opts.AxisLabel{Formatter: monthTickFormatter},
		}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
	)
	for _, s := range f.Series {
		data := make([]opts.LineData, 0, len(s.Points))
		for _, p := range s.Points {
			if p.Y == nil {
				continue
			}
			data = append(data, opts.LineData{Value: []interface{}{p.X, *p.Y}})
		}
		line.AddSeries(s.Name, data)
	}
	return line
}

// monthSpan：首末日期之间的月数，用作时间轴分段数以得到按月刻度
func monthSpan(f *figure.Figure) int {
	var first, last time.Time
	for _, s := range f.Series {
		for _, p := range s.Points {
			t, err := time.Parse(table.DateLayout, p.X)
			if err != nil {
				continue
			}
			if first.IsZero() || t.Before(first) {
				first = t
			}
			if t.After(last) {
				last = t
			}
		}
	}
	if first.IsZero() {
		return 1
	}
	n := (last.Year()-first.Year())*12 + int(last.Month()-first.Month())
	if n < 1 {
		return 1
	}
	return n
}

// boxChart：每个箱体单独成系列以便各自着色；均值以菱形散点叠加
func boxChart(id string, f *figure.Figure) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		initOpts(id, f, chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true)}),
	)
	names := make([]string, len(f.Boxes))
	for i, b := range f.Boxes {
		names[i] = b.Name
	}
	box.SetXAxis(names)
	means := make([]opts.ScatterData, 0, len(f.Boxes))
	for i, b := range f.Boxes {
		data := make([]opts.BoxPlotData, len(f.Boxes))
		for j := range data {
			data[j] = opts.BoxPlotData{Name: names[j], Value: "-"}
		}
		if b.N > 0 {
			data[i] = opts.BoxPlotData{Name: b.Name, Value: []float64{b.LowerFence, b.Q1, b.Median, b.Q3, b.UpperFence}}
			means = append(means, opts.ScatterData{Name: b.Name, Value: []interface{}{b.Name, b.Mean}, Symbol: "diamond", SymbolSize: 10})
		}
		box.AddSeries(b.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: b.Color, BorderColor: b.Color}))
	}
	mean := charts.NewScatter()
	mean.AddSeries("mean", means, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ffffff"}))
	box.Overlap(mean)
	return box
}

func mapChart(id string, f *figure.Figure) *charts.Map {
	m := charts.NewMap()
	m.RegisterMapType("world")
	scale := f.Scale
	if scale == nil {
		scale = &figure.ColorScale{Colors: figure.RedsScale}
	}
	m.SetGlobalOptions(
		initOpts(id, f, mapHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: boolPtr(true),
			Min:        float32(scale.Min),
			Max:        float32(scale.Max),
			Text:       []string{scale.Title},
			InRange:    &opts.VisualMapInRange{Color: scale.Colors},
		}),
	)
	items := make([]regionItem, 0, len(f.Regions))
	for _, r := range f.Regions {
		items = append(items, regionItem{Name: featureName(r.Code, r.Label), Value: r.Value, Code: r.Code, Country: r.Label})
	}
	border := "darkgray"
	if f.Geo != nil && f.Geo.BorderColor != "" {
		border = f.Geo.BorderColor
	}
	m.AddSeries(f.Title, nil, withRegions(items), charts.WithItemStyleOpts(opts.ItemStyle{BorderColor: border}))
	return m
}

// regionItem：地图数据项；Name 对齐 world.js 要素，Country 为数据集国家名，点击时回传
// 约束：Value 为空时输出 null，区域保留但不着色
type regionItem struct {
	Name    string   `json:"name"`
	Value   *float64 `json:"value"`
	Code    string   `json:"code"`
	Country string   `json:"country"`
}

// opts.MapData 只有 name/value 两个字段，这里直接替换系列数据
func withRegions(items []regionItem) charts.SeriesOpts {
	return func(s *charts.SingleSeries) { s.Data = items }
}
