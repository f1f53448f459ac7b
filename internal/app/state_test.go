package app

import (
	"context"
	"os"
	"testing"
	"time"

	"covid-dash/internal/dataset"
	"covid-dash/internal/dataset/datasettest"
	"covid-dash/internal/figure"
	"covid-dash/internal/layout"
	"covid-dash/internal/logger"
	"covid-dash/internal/nav"
	"covid-dash/internal/table"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, p dataset.Paths, loader table.Loader) *State {
	t.Helper()
	s, err := New(Options{Paths: p, Loader: loader, Seed: 1, Log: logger.Discard()})
	require.NoError(t, err)
	return s
}

func TestNewLoadsSnapshot(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	s := newState(t, p, nil)
	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.EqualValues(t, 1, snap.Version)
	assert.Equal(t, len(datasettest.Dates), snap.Global.World.Len())
	assert.EqualValues(t, datasettest.WorldTotalCases, snap.Summary.TotalCases)
	assert.EqualValues(t, datasettest.WorldTotalDeaths, snap.Summary.TotalDeaths)
	assert.EqualValues(t, datasettest.WorldNewCases, snap.Summary.NewCases)

	countries, err := s.Countries()
	require.NoError(t, err)
	assert.Len(t, countries, len(datasettest.Countries))
}

func TestNewFailsWithoutGlobalTables(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	require.NoError(t, os.Remove(p.MapTable()))
	_, err := New(Options{Paths: p, Log: logger.Discard()})
	var nf *table.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestNewFailsWithoutLocationColumn(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	datasettest.WriteCSV(t, p.MasterTable(), []string{"date", "total_cases"}, [][]string{{"2020-03-01", "1"}})
	_, err := New(Options{Paths: p, Log: logger.Discard()})
	var ce *figure.ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"location"}, ce.Columns)
}

func TestReloadKeepsSnapshotOnError(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	s := newState(t, p, table.NewCachingLoader(table.FileLoader{}, 16, time.Hour))
	before := s.Snapshot()

	require.NoError(t, os.WriteFile(p.MapTable(), []byte("Code,Code\n"), 0o644))
	err := s.Reload()
	var pe *table.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Same(t, before, s.Snapshot())

	datasettest.WriteCSV(t, p.MapTable(), []string{"Code", "Country", "Total Cases"}, [][]string{{"FRA", "France", "1"}})
	require.NoError(t, s.Reload())
	assert.EqualValues(t, 2, s.Version(), "failed reload does not bump the version")
	assert.Equal(t, 1, s.Snapshot().Global.Map.Len())
}

func TestGlobalLayoutIdempotent(t *testing.T) {
	s := newState(t, datasettest.Write(t, t.TempDir()), nil)
	a, err := s.GlobalLayout()
	require.NoError(t, err)
	b, err := s.GlobalLayout()
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("global layout changed between calls:\n%s", diff)
	}
	wm := a.Find(layout.WorldMapID)
	require.NotNil(t, wm)
	assert.Len(t, wm.Figure.Regions, s.Snapshot().Global.Map.Len())
}

func TestControllerEmitsCountryLayout(t *testing.T) {
	s := newState(t, datasettest.Write(t, t.TempDir()), nil)
	ctl, err := nav.New(s, logger.Discard())
	require.NoError(t, err)

	got := ctl.Navigate("/", nav.Click("Germany"))
	want, err := s.CountryLayout("Germany")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("emitted tree differs from country layout:\n%s", diff)
	}

	prior := ctl.Current()
	assert.Same(t, prior, ctl.Navigate("/", nav.Click("Atlantis")))
	mode, country := ctl.State()
	assert.Equal(t, nav.Detail, mode)
	assert.Equal(t, "Germany", country)
}

func TestWatchReloadsOnMapChange(t *testing.T) {
	p := datasettest.Write(t, t.TempDir())
	s := newState(t, p, table.NewCachingLoader(table.FileLoader{}, 16, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx))

	datasettest.WriteCSV(t, p.MapTable(), []string{"Code", "Country", "Total Cases"}, [][]string{{"FRA", "France", "1"}})
	assert.Eventually(t, func() bool {
		return s.Version() >= 2 && s.Snapshot().Global.Map.Len() == 1
	}, 5*time.Second, 50*time.Millisecond)
}
