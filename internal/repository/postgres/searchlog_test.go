package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
)

var searchCols = []string{"id", "query", "search_count", "results_count", "last_searched"}

func samplePopularSearch() domain.PopularSearch {
	return domain.PopularSearch{
		ID:           "ps-1",
		Query:        "moloko",
		SearchCount:  12,
		ResultsCount: 5,
		LastSearched: now,
	}
}

func searchRow(s domain.PopularSearch) []any {
	return []any{s.ID, s.Query, s.SearchCount, s.ResultsCount, s.LastSearched}
}

func TestSearchLogRepository_LogSearch_Upsert(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewSearchLogRepository(mock)

	// One statement handles both first sight and repeat: the conflict branch
	// increments search_count atomically.
	mock.ExpectExec(`(?s)INSERT INTO popular_searches.+ON CONFLICT \(query\) DO UPDATE.+search_count = popular_searches\.search_count \+ 1`).
		WithArgs(pgxmock.AnyArg(), "moloko", 5).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.LogSearch(context.Background(), "moloko", 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLogRepository_LogSearch_ZeroResults(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewSearchLogRepository(mock)

	mock.ExpectExec(`INSERT INTO popular_searches`).
		WithArgs(pgxmock.AnyArg(), "qwertyuiop", 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.LogSearch(context.Background(), "qwertyuiop", 0)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLogRepository_RecentQueries(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewSearchLogRepository(mock)

	s := samplePopularSearch()

	mock.ExpectQuery(`(?s)SELECT .+ FROM popular_searches.+results_count > 0 AND query <> \$1.+ORDER BY search_count DESC`).
		WithArgs("mloko", 20).
		WillReturnRows(pgxmock.NewRows(searchCols).AddRow(searchRow(s)...))

	searches, err := repo.RecentQueries(context.Background(), 20, "mloko")
	require.NoError(t, err)
	assert.Len(t, searches, 1)
	assert.Equal(t, "moloko", searches[0].Query)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLogRepository_RecentQueries_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewSearchLogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM popular_searches`).
		WithArgs("anything", 20).
		WillReturnRows(pgxmock.NewRows(searchCols))

	searches, err := repo.RecentQueries(context.Background(), 20, "anything")
	require.NoError(t, err)
	assert.Equal(t, []domain.PopularSearch{}, searches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLogRepository_SuggestByPrefix(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewSearchLogRepository(mock)

	s := samplePopularSearch()

	mock.ExpectQuery(`(?s)SELECT .+ FROM popular_searches.+query LIKE \$1.+ORDER BY search_count DESC`).
		WithArgs("mol%", 4).
		WillReturnRows(pgxmock.NewRows(searchCols).AddRow(searchRow(s)...))

	searches, err := repo.SuggestByPrefix(context.Background(), "mol", 4)
	require.NoError(t, err)
	assert.Len(t, searches, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
