package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return AttachDB(db), mock
}

func TestRecordView(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("INSERT INTO _dash_views").WithArgs("France").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO _dash_stats_daily").WithArgs("France").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.RecordView(context.Background(), "France"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewError(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("boom")
	mock.ExpectExec("INSERT INTO _dash_views").WillReturnError(boom)
	err := s.RecordView(context.Background(), "France")
	assert.ErrorIs(t, err, boom)
}

func TestTopCountries(t *testing.T) {
	s, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"country", "views", "today"}).
		AddRow("France", 10, 2).
		AddRow("Germany", 4, 0)
	mock.ExpectQuery("SELECT v.country, v.views").WithArgs(5).WillReturnRows(rows)
	got, err := s.TopCountries(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []CountryViews{{Country: "France", Views: 10, Today: 2}, {Country: "Germany", Views: 4}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTotals(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("FROM _dash_views").WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(14))
	mock.ExpectQuery("FROM _dash_stats_daily").WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(2))
	got, err := s.GetTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{Total: 14, Today: 2}, got)
}

func TestNilStore(t *testing.T) {
	var s *Store
	ctx := context.Background()
	assert.NoError(t, s.RecordView(ctx, "France"))
	top, err := s.TopCountries(ctx, 3)
	assert.NoError(t, err)
	assert.Nil(t, top)
	tot, err := s.GetTotals(ctx)
	assert.NoError(t, err)
	assert.Equal(t, Totals{}, tot)
	assert.NoError(t, s.Close())
}
