package layout

import (
	"time"

	"covid-dash/internal/figure"
	"covid-dash/internal/metrics"
	"covid-dash/internal/table"
)

// WorldMapID：首页世界地图的图表 ID，前端据此绑定点击事件
const WorldMapID = "world_map"

const dataSourceURL = "https://ourworldindata.org/coronavirus-source-data"

// GlobalData：首页所需的两张表
// Map 为地图元数据（Code / Country / Total Cases），World 为 location == "World" 的汇总时间序列
type GlobalData struct {
	Map   *table.Table
	World *table.Table
}

// Global：构建首页布局
// 异常：缺列时返回 *figure.ColumnError，原样向上传递
func Global(g GlobalData) (*Node, error) {
	start := time.Now()
	defer func() {
		metrics.LayoutBuildDurationMs.WithLabelValues("global").Observe(float64(time.Since(start).Milliseconds()))
	}()
	sum, err := Summarize(g.World)
	if err != nil {
		return nil, err
	}
	worldMap, err := figure.Choropleth(g.Map, "Code", "Total Cases", "Country", "Covid Cases",
		figure.WithBackground("#060606"), figure.WithBorderColor("black"), figure.WithFrame(true))
	if err != nil {
		return nil, err
	}
	b := &builder{t: g.World}
	row1 := Row("",
		Col(6, b.line("world_new_cases_deaths", "Time Series graph for Daily Cases and Deaths", "new_cases", "new_deaths")),
		Col(6, b.line("world_new_deaths", "Time Series graph for Daily Deaths", "new_deaths")),
	)
	row2 := Row("mt-4 mb-4",
		Col(6, b.line("world_total_cases", "Time Series graph for total Confirmed Cases", "total_cases")),
		Col(6, b.line("world_total_deaths", "Time Series graph for Total Deaths", "total_deaths")),
	)
	if b.err != nil {
		return nil, b.err
	}
	cards := Div("",
		Row("",
			Col(4, metricCard(sum.TotalCasesText(), "World Wide Total Cases", "text-white bg-warning")),
			Col(4, metricCard(sum.TotalDeathsText(), "World Wide Total Deaths", "text-white bg-danger")),
			Col(4, metricCard(sum.NewCasesText(), sum.NewCasesLabel(), "text-white bg-light")),
		),
		Row("", Col(12, Div("text-white bg-light mt-3 mb-3", Graph(WorldMapID, worldMap)))),
	)
	page := Container(
		Div("", Break(), centered(3, "Covid-19 Dataset Visualization"), Break(), Break()),
		Row("", Col(3, aboutPanel(sum)), Col(8, cards)),
		Section(4, "Time Series Plots", "left"),
		row1,
		row2,
	)
	return page, nil
}

func aboutPanel(sum Summary) *Node {
	updated := "The dataset is updated daily by the Our World in Data team."
	if !sum.Date.IsZero() {
		updated = "This dataset was last updated on " + sum.Date.Format("2 Jan 2006") + "."
	}
	return Card("",
		Heading(5, "About this app"),
		Break(),
		Div("pl-3", Text("Data Source: "), Link("Our World in Data", dataSourceURL)),
		Text("This application provides the visualizations for the Covid-19 dataset "+
			"published by Our World in Data. "+updated),
		Text("The choropleth world map is colored by the number of total Covid-19 cases in each country. "+
			"Click on a country in the map to see detailed visualizations for each feature of that country."),
	)
}

func metricCard(value, label, class string) *Node {
	return Card(class, Heading(4, value), Text(label))
}

func centered(level int, text string) *Node {
	h := Heading(level, text)
	h.Align = "center"
	return h
}
