package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"covid-dash/internal/dataset"
	"covid-dash/internal/dataset/datasettest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAt(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2021, 3, 1, 1, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2021, 3, 1, 3, 0, 0, 0, loc), nextAt(now, loc, 3))

	now = time.Date(2021, 3, 1, 3, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2021, 3, 2, 3, 0, 0, 0, loc), nextAt(now, loc, 3))

	now = time.Date(2021, 12, 31, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2022, 1, 1, 3, 0, 0, 0, loc), nextAt(now, loc, 3))
}

func TestJobRun(t *testing.T) {
	src := datasettest.Write(t, t.TempDir())
	master, err := os.ReadFile(src.MasterTable())
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(master)
	}))
	defer srv.Close()

	reloads := 0
	job := &Job{
		Paths:  dataset.Paths{DataDir: t.TempDir()},
		URL:    srv.URL,
		Client: srv.Client(),
		Reload: func() error { reloads++; return nil },
	}
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, reloads)
	names, err := job.Paths.Countries()
	require.NoError(t, err)
	assert.Len(t, names, len(datasettest.Countries))
}

func TestJobRunFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	reloads := 0
	job := &Job{Paths: dataset.Paths{DataDir: t.TempDir()}, URL: srv.URL, Client: srv.Client(), Reload: func() error { reloads++; return nil }}
	assert.Error(t, job.Run(context.Background()))
	assert.Equal(t, 0, reloads)
}
