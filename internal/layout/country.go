package layout

import (
	"errors"
	"time"

	"covid-dash/internal/dataset"
	"covid-dash/internal/figure"
	"covid-dash/internal/metrics"
	"covid-dash/internal/table"
)

const chartCardClass = "text-white bg-light"

var errNoContinent = errors.New("no rows to read continent from")

// Assembler：国家页面的构建依赖
// 约束：Seed 决定箱线图配色；每次构建新建调色板，因此同一国家、同一份文件得到相同的树
type Assembler struct {
	Loader table.Loader
	Paths  dataset.Paths
	Seed   uint64
}

// Country：加载国家分表及其所属大洲分表，构建 9 张时间序列、2 张大洲地图与 6 张箱线图
// 异常：加载器与图表构造的错误原样返回，不做包装
func (a *Assembler) Country(name string) (*Node, error) {
	start := time.Now()
	defer func() {
		metrics.LayoutBuildDurationMs.WithLabelValues("country").Observe(float64(time.Since(start).Milliseconds()))
	}()
	path, err := a.Paths.Country(name)
	if err != nil {
		return nil, err
	}
	ct, err := a.loader().Load(path)
	if err != nil {
		return nil, err
	}
	continent, err := continentOf(ct)
	if err != nil {
		return nil, err
	}
	cpath, err := a.Paths.Continent(continent)
	if err != nil {
		return nil, err
	}
	cont, err := a.loader().Load(cpath)
	if err != nil {
		return nil, err
	}

	b := &builder{t: ct, palette: figure.NewPalette(a.Seed)}
	rows := []*Node{
		Row("",
			Col(6, b.line("new_cases_deaths", "Time Series graph for Daily Cases and Deaths", "new_cases", "new_deaths")),
			Col(6, b.line("new_cases_tests", "Time Series graph for Daily Cases and Tests", "new_cases", "new_tests")),
		),
		Row("mt-4",
			Col(6, b.line("total_cases", "Time Series graph for Total Confirmed Cases", "total_cases")),
			Col(6, b.line("new_cases", "Time Series graph for Daily Confirmed Cases", "new_cases")),
		),
		Row("mt-4",
			Col(6, b.line("total_deaths", "Time Series graph for Total Deaths", "total_deaths")),
			Col(6, b.line("new_deaths", "Time Series graph for Daily Deaths", "new_deaths")),
		),
		Row("mt-4",
			Col(6, b.line("total_tests", "Time Series graph for Total Tests Taken", "total_tests")),
			Col(6, b.line("new_tests", "Time Series graph for Daily Tests Taken", "new_tests")),
		),
		Row("mt-4",
			Col(12, b.line("stringency_new_cases", "Time Series graph for Stringency Index and Daily Cases", "new_cases", "stringency_index")),
		),
		Section(4, "Choropleth Map for Continent", "left"),
		Row("",
			Col(6, b.continentMap(cont, "continent_cases", "Cases in the Continent", "total_cases", "Cases")),
			Col(6, b.continentMap(cont, "continent_deaths", "Deaths in the Continent", "total_deaths", "Deaths")),
		),
		Section(4, "Box Plots for detecting outliers", "left"),
		Row("",
			Col(6, b.box("box_cases_deaths_tests", "Box Plot Chart for Daily Cases, Deaths and Tests", "new_cases", "new_deaths", "new_tests")),
			Col(6, b.box("box_ages", "Box Plot Chart", "median_age", "aged_65_older", "aged_70_older")),
		),
		Row("mt-4",
			Col(6, b.box("box_population", "Box Plot Chart for Population", "population")),
			Col(6, b.box("box_density_gdp", "Box Plot Chart for Population Density and GDP per capita", "population_density", "gdp_per_capita")),
		),
		Row("mt-4 mb-4",
			Col(6, b.box("box_stringency_index", "Box Plot Chart for Stringency Index", "stringency_index")),
			Col(6, b.box("box_life_expectancy", "Box Plot Chart for Life Expectancy", "life_expectancy")),
		),
	}
	if b.err != nil {
		return nil, b.err
	}
	head := []*Node{
		Div("", Break(), centered(3, "Data Visualization For "+dataset.DisplayName(name)), Break(), Break()),
		Section(4, "Time Series Plots for different features", "left"),
	}
	return Container(append(head, rows...)...), nil
}

func (a *Assembler) loader() table.Loader {
	if a.Loader == nil {
		return table.FileLoader{}
	}
	return a.Loader
}

// continentOf：国家表首行的 continent 列
func continentOf(t *table.Table) (string, error) {
	if !t.Has("continent") {
		return "", &figure.ColumnError{Table: t.Path(), Columns: []string{"continent"}}
	}
	if t.Len() == 0 {
		return "", &table.ParseError{Path: t.Path(), Err: errNoContinent}
	}
	return t.String(0, "continent"), nil
}

// builder：按顺序构建图表卡片，记录第一个错误后跳过其余构建
type builder struct {
	t       *table.Table
	palette *figure.Palette
	err     error
}

func (b *builder) card(id, title string, build func() (*figure.Figure, error)) *Node {
	if b.err != nil {
		return nil
	}
	f, err := build()
	if err != nil {
		b.err = err
		return nil
	}
	return Card(chartCardClass, Heading(6, title), Graph(id, f))
}

func (b *builder) line(id, title string, cols ...string) *Node {
	return b.card(id, title, func() (*figure.Figure, error) { return figure.LineChart(b.t, "date", cols) })
}

func (b *builder) box(id, title string, cols ...string) *Node {
	return b.card(id, title, func() (*figure.Figure, error) { return figure.BoxPlot(b.t, cols, b.palette) })
}

func (b *builder) continentMap(t *table.Table, id, title, value, colorbar string) *Node {
	return b.card(id, title, func() (*figure.Figure, error) {
		return figure.Choropleth(t, "iso_code", value, "location", colorbar)
	})
}
