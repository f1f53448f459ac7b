package layout

import (
	"path/filepath"
	"testing"
	"time"

	"covid-dash/internal/dataset"
	"covid-dash/internal/dataset/datasettest"
	"covid-dash/internal/figure"
	"covid-dash/internal/table"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func globalData(t *testing.T, p dataset.Paths) GlobalData {
	t.Helper()
	m, err := table.Load(p.MapTable())
	require.NoError(t, err)
	master, err := table.Load(p.MasterTable())
	require.NoError(t, err)
	w, ok := master.Filter("location", dataset.WorldLocation)
	require.True(t, ok)
	return GlobalData{Map: m, World: w}
}

func TestCountryLayoutShape(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	a := &Assembler{Paths: p, Seed: 1}
	for _, c := range datasettest.Countries {
		root, err := a.Country(c.Name)
		require.NoError(t, err, c.Name)
		assert.Equal(t, 9, root.CountFigures(figure.KindLine), c.Name)
		assert.Equal(t, 6, root.CountFigures(figure.KindBox), c.Name)
		assert.Equal(t, 2, root.CountFigures(figure.KindChoropleth), c.Name)
	}
}

func TestCountryLayoutContent(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	a := &Assembler{Paths: p, Seed: 1}
	root, err := a.Country("Korea, South")
	require.NoError(t, err)

	var headings []string
	root.Walk(func(n *Node) {
		if n.Kind == KindHeading && n.Level == 3 {
			headings = append(headings, n.Text)
		}
	})
	assert.Equal(t, []string{"Data Visualization For Korea"}, headings)

	cases := root.Find("continent_cases")
	require.NotNil(t, cases)
	require.Len(t, cases.Figure.Regions, 1, "Asia holds only Korea")
	assert.Equal(t, "KOR", cases.Figure.Regions[0].Code)

	sc := root.Find("stringency_new_cases").Figure
	require.Len(t, sc.Series, 2)
	assert.Equal(t, "new_cases", sc.Series[0].Name)
	assert.Equal(t, "stringency_index", sc.Series[1].Name)

	ages := root.Find("box_ages").Figure
	require.Len(t, ages.Boxes, 3)
	seen := map[string]bool{}
	for _, b := range ages.Boxes {
		assert.False(t, seen[b.Color])
		seen[b.Color] = true
	}
}

func TestCountryLayoutDeterministic(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	a := &Assembler{Paths: p, Seed: 9}
	first, err := a.Country("France")
	require.NoError(t, err)
	second, err := a.Country("France")
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed, same files, different tree:\n%s", diff)
	}
}

func TestCountryLayoutErrors(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	a := &Assembler{Paths: p, Seed: 1}

	t.Run("unknown country", func(t *testing.T) {
		_, err := a.Country("Atlantis")
		var nf *table.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, filepath.Join(p.DataDir, dataset.CountriesDir, "Atlantis.csv"), nf.Path)
	})

	t.Run("path escape", func(t *testing.T) {
		_, err := a.Country("../owid-covid-data")
		var nf *table.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("continent file missing", func(t *testing.T) {
		path, err := p.Country("Lemuria")
		require.NoError(t, err)
		rows := datasettest.Rows(datasettest.Location{ISO: "LEM", Continent: "Mu", Name: "Lemuria", Scale: 1})
		datasettest.WriteCSV(t, path, datasettest.Columns, rows)
		_, err = a.Country("Lemuria")
		var nf *table.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, filepath.Join(p.DataDir, dataset.ContinentsDir, "Mu.csv"), nf.Path)
	})

	t.Run("missing column", func(t *testing.T) {
		path, err := p.Country("Narnia")
		require.NoError(t, err)
		cols := datasettest.Columns[:len(datasettest.Columns)-1]
		rows := datasettest.Rows(datasettest.Location{ISO: "NAR", Continent: "Europe", Name: "Narnia", Scale: 1})
		for i := range rows {
			rows[i] = rows[i][:len(cols)]
		}
		datasettest.WriteCSV(t, path, cols, rows)
		_, err = a.Country("Narnia")
		var ce *figure.ColumnError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, []string{"life_expectancy"}, ce.Columns)
	})

	t.Run("no rows", func(t *testing.T) {
		path, err := p.Country("Empty")
		require.NoError(t, err)
		datasettest.WriteCSV(t, path, datasettest.Columns, nil)
		_, err = a.Country("Empty")
		var pe *table.ParseError
		require.ErrorAs(t, err, &pe)
	})
}

func TestGlobalLayout(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	g := globalData(t, p)
	root, err := Global(g)
	require.NoError(t, err)

	assert.Equal(t, 4, root.CountFigures(figure.KindLine))
	assert.Equal(t, 1, root.CountFigures(figure.KindChoropleth))
	assert.Equal(t, 0, root.CountFigures(figure.KindBox))

	withCode := 0
	for r := 0; r < g.Map.Len(); r++ {
		if g.Map.String(r, "Code") != "" {
			withCode++
		}
	}
	wm := root.Find(WorldMapID)
	require.NotNil(t, wm)
	assert.Len(t, wm.Figure.Regions, withCode)
	assert.Equal(t, "#060606", wm.Figure.Theme.Background)

	var texts []string
	root.Walk(func(n *Node) {
		if n.Kind == KindHeading && n.Level == 4 {
			texts = append(texts, n.Text)
		}
	})
	assert.Contains(t, texts, "15,000")
	assert.Contains(t, texts, "1,500")
	assert.Contains(t, texts, "5,000")
}

func TestGlobalLayoutIdempotent(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	first, err := Global(globalData(t, p))
	require.NoError(t, err)
	second, err := Global(globalData(t, p))
	require.NoError(t, err)
	assert.True(t, cmp.Equal(first, second))
}

func TestGlobalLayoutMissingMapColumn(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	g := globalData(t, p)
	g.Map = table.New("world_map_data.csv", []string{"Code", "Country"}, nil)
	_, err := Global(g)
	var ce *figure.ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"Total Cases"}, ce.Columns)
}

func TestSummarize(t *testing.T) {
	w := table.New("w", []string{"date", "total_cases", "total_deaths", "new_cases"}, [][]string{
		{"2020-10-25", "100", "10", "7"},
		{"2020-10-26", "1234567", "20", "1000"},
		{"2020-10-27", "", "", ""},
	})
	s, err := Summarize(w)
	require.NoError(t, err)
	assert.EqualValues(t, 1234567, s.TotalCases)
	assert.Equal(t, "1,234,567", s.TotalCasesText())
	assert.Equal(t, "20", s.TotalDeathsText())
	assert.Equal(t, "1,000", s.NewCasesText())
	assert.Equal(t, time.Date(2020, 10, 26, 0, 0, 0, 0, time.UTC), s.Date)
	assert.Equal(t, "New Cases on Oct 26, 2020", s.NewCasesLabel())

	_, err = Summarize(table.New("w", []string{"date"}, nil))
	var ce *figure.ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"total_cases", "total_deaths", "new_cases"}, ce.Columns)

	empty, err := Summarize(table.New("w", []string{"date", "total_cases", "total_deaths", "new_cases"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "New Cases", empty.NewCasesLabel())
}
