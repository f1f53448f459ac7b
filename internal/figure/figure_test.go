package figure

import (
	"testing"

	"covid-dash/internal/table"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func country() *table.Table {
	return table.New("France.csv",
		[]string{"date", "new_cases", "new_deaths", "median_age", "empty"},
		[][]string{
			{"2020-03-01", "1", "0", "40", ""},
			{"2020-03-02", "2", "", "40", ""},
			{"2020-03-03", "3", "1", "40", ""},
			{"2020-03-04", "4", "1", "40", ""},
			{"2020-03-05", "100", "2", "40", ""},
		})
}

func TestLineChart(t *testing.T) {
	f, err := LineChart(country(), "date", []string{"new_cases", "new_deaths"})
	require.NoError(t, err)
	assert.Equal(t, KindLine, f.Kind)
	assert.Equal(t, DarkTheme, f.Theme)
	assert.Equal(t, &TimeAxis{Column: "date", TickInterval: "M1", TickFormat: "%b\n%Y", HoverFormat: "%B %d, %Y"}, f.XAxis)
	require.Len(t, f.Series, 2)
	assert.Equal(t, "new_cases", f.Series[0].Name)
	assert.Equal(t, "new_deaths", f.Series[1].Name)
	for _, s := range f.Series {
		assert.Len(t, s.Points, 5, "one point per row")
	}
	assert.Nil(t, f.Series[1].Points[1].Y, "missing value kept as a gap")
	assert.Equal(t, 100.0, *f.Series[0].Points[4].Y)
	assert.Equal(t, "2020-03-05", f.Series[0].Points[4].X)
}

func TestLineChartZeroRows(t *testing.T) {
	empty := table.New("e.csv", []string{"date", "new_cases"}, nil)
	f, err := LineChart(empty, "date", []string{"new_cases"})
	require.NoError(t, err)
	require.Len(t, f.Series, 1)
	assert.Empty(t, f.Series[0].Points)
}

func TestLineChartMissingColumn(t *testing.T) {
	_, err := LineChart(country(), "date", []string{"new_cases", "total_tests"})
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"total_tests"}, ce.Columns)
	assert.Equal(t, "France.csv", ce.Table)

	_, err = LineChart(country(), "day", []string{"new_cases"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"day"}, ce.Columns)

	_, err = LineChart(country(), "date", nil)
	require.ErrorAs(t, err, &ce)
}

func TestBoxPlot(t *testing.T) {
	f, err := BoxPlot(country(), []string{"new_cases", "new_deaths", "empty"}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindBox, f.Kind)
	require.Len(t, f.Boxes, 3)

	want := Box{
		Name: "new_cases", Color: BoxColors[0], N: 5,
		Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 100, Mean: 22,
		LowerFence: 1, UpperFence: 4, Outliers: []float64{100},
	}
	if diff := cmp.Diff(want, f.Boxes[0]); diff != "" {
		t.Errorf("box mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, f.Boxes[1].N, "empty cells skipped")
	assert.Equal(t, Box{Name: "empty", Color: BoxColors[2]}, f.Boxes[2])
}

func TestBoxPlotMissingColumn(t *testing.T) {
	_, err := BoxPlot(country(), []string{"gdp_per_capita"}, NewPalette(1))
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"gdp_per_capita"}, ce.Columns)
}

func TestPaletteDistinctAndSeeded(t *testing.T) {
	for n := 1; n <= len(BoxColors); n++ {
		got := NewPalette(7).Draw(n)
		seen := map[string]bool{}
		for _, c := range got {
			assert.Contains(t, BoxColors, c)
			assert.False(t, seen[c], "color %s drawn twice", c)
			seen[c] = true
		}
	}
	assert.Equal(t, NewPalette(42).Draw(5), NewPalette(42).Draw(5))
}

func TestPaletteCyclesPastFive(t *testing.T) {
	got := NewPalette(3).Draw(7)
	require.Len(t, got, 7)
	assert.Equal(t, got[0], got[5])
	assert.Equal(t, got[1], got[6])
	assert.Equal(t, BoxColors, (*Palette)(nil).Draw(5))
}

func TestChoropleth(t *testing.T) {
	tb := table.New("world_map_data.csv",
		[]string{"Code", "Country", "Total Cases"},
		[][]string{
			{"FRA", "France", "150"},
			{"", "Nowhere", "5"},
			{"DEU", "Germany", ""},
			{"KOR", "Korea, South", "450"},
		})
	f, err := Choropleth(tb, "Code", "Total Cases", "Country", "Covid Cases",
		WithBackground("#060606"), WithBorderColor("black"), WithFrame(true))
	require.NoError(t, err)
	assert.Equal(t, KindChoropleth, f.Kind)
	assert.Equal(t, "#060606", f.Theme.Background)
	assert.Equal(t, &GeoOptions{Projection: "equirectangular", ShowFrame: true, BorderColor: "black", BorderWidth: 0.5}, f.Geo)
	require.Len(t, f.Regions, 3, "empty code skipped")
	assert.Equal(t, "FRA", f.Regions[0].Code)
	assert.Nil(t, f.Regions[1].Value)
	assert.Equal(t, "Korea, South", f.Regions[2].Label)
	assert.Equal(t, 150.0, f.Scale.Min)
	assert.Equal(t, 450.0, f.Scale.Max)
	assert.Equal(t, "Covid Cases", f.Scale.Title)
	assert.False(t, f.Scale.Reversed)
}

func TestChoroplethDefaultsAndMissing(t *testing.T) {
	tb := table.New("Europe.csv", []string{"iso_code", "location", "total_cases"}, [][]string{{"FRA", "France", "1"}})
	f, err := Choropleth(tb, "iso_code", "total_cases", "location", "Cases")
	require.NoError(t, err)
	assert.Equal(t, "darkgray", f.Geo.BorderColor)
	assert.Equal(t, DarkTheme, f.Theme)

	_, err = Choropleth(tb, "iso_code", "total_deaths", "location", "Deaths")
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"total_deaths"}, ce.Columns)
}
