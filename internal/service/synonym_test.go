package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	apperrors "github.com/ErbolTakhirov/Abak-market/pkg/errors"
)

func TestSynonymIndex_Expand_NoMatches(t *testing.T) {
	repo := new(mockSynonymRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
	}, nil)
	idx := newTestSynonymIndex(repo)

	variants := idx.Expand(context.Background(), "bread")
	assert.Equal(t, []string{"bread"}, variants)
}

func TestSynonymIndex_Expand_WholeTokenOnly(t *testing.T) {
	repo := new(mockSynonymRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
	}, nil)
	idx := newTestSynonymIndex(repo)

	// "kofein" contains "kofe" as a substring but not as a whole token.
	variants := idx.Expand(context.Background(), "kofein")
	assert.Equal(t, []string{"kofein"}, variants)
}

func TestSynonymIndex_Expand_ReplacesToken(t *testing.T) {
	repo := new(mockSynonymRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
	}, nil)
	idx := newTestSynonymIndex(repo)

	variants := idx.Expand(context.Background(), "Kofe Arabica")
	assert.Equal(t, []string{"kofe arabica", "coffee arabica"}, variants)
}

func TestSynonymIndex_Expand_MultipleAlternates(t *testing.T) {
	repo := new(mockSynonymRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
		{Term: "cacao", Alternate: "kofe"},
		{Term: "milk", Alternate: "moloko"},
	}, nil)
	idx := newTestSynonymIndex(repo)

	variants := idx.Expand(context.Background(), "kofe moloko")
	assert.ElementsMatch(t, []string{
		"kofe moloko",
		"coffee moloko",
		"cacao moloko",
		"kofe milk",
	}, variants)
	assert.Equal(t, "kofe moloko", variants[0])
}

func TestSynonymIndex_Expand_Deduplicates(t *testing.T) {
	repo := new(mockSynonymRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
		{Term: "coffee", Alternate: "cofe"},
	}, nil)
	idx := newTestSynonymIndex(repo)

	variants := idx.Expand(context.Background(), "kofe")
	assert.Equal(t, []string{"kofe", "coffee"}, variants)
}

func TestSynonymIndex_SnapshotReused(t *testing.T) {
	repo := new(mockSynonymRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
	}, nil).Once()
	idx := newTestSynonymIndex(repo)

	idx.Expand(context.Background(), "kofe")
	idx.Expand(context.Background(), "kofe")
	repo.AssertNumberOfCalls(t, "ListAll", 1)
}

func TestSynonymIndex_ReloadFailureKeepsPreviousSnapshot(t *testing.T) {
	repo := new(mockSynonymRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
	}, nil).Once()
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{}, errors.New("connection refused"))

	idx := NewSynonymIndex(repo, time.Nanosecond, newTestLogger())

	first := idx.Expand(context.Background(), "kofe")
	assert.Contains(t, first, "coffee")

	// Reload period elapsed and storage is down: previous snapshot survives.
	second := idx.Expand(context.Background(), "kofe")
	assert.Contains(t, second, "coffee")
}

func TestSynonymService_AddSynonym_Validation(t *testing.T) {
	repo := new(mockSynonymRepo)
	svc := NewSynonymService(repo, newTestSynonymIndex(repo), newTestLogger())

	_, err := svc.AddSynonym(context.Background(), "", "kofe")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.AddSynonym(context.Background(), "coffee", "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.AddSynonym(context.Background(), "Coffee", "coffee")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSynonymService_AddSynonym_InvalidatesIndex(t *testing.T) {
	repo := new(mockSynonymRepo)
	idx := newTestSynonymIndex(repo)
	svc := NewSynonymService(repo, idx, newTestLogger())

	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{}, nil).Once()
	assert.Equal(t, []string{"kofe"}, idx.Expand(context.Background(), "kofe"))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.SearchSynonym")).Return(nil)
	repo.On("ListAll", mock.Anything).Return([]domain.SearchSynonym{
		{Term: "coffee", Alternate: "kofe"},
	}, nil).Once()

	syn, err := svc.AddSynonym(context.Background(), " Coffee ", "KOFE")
	require.NoError(t, err)
	assert.Equal(t, "coffee", syn.Term)
	assert.Equal(t, "kofe", syn.Alternate)

	// The write dropped the snapshot, so expansion sees the new pair.
	assert.Contains(t, idx.Expand(context.Background(), "kofe"), "coffee")
}

func TestSynonymService_RemoveSynonym(t *testing.T) {
	repo := new(mockSynonymRepo)
	idx := newTestSynonymIndex(repo)
	svc := NewSynonymService(repo, idx, newTestLogger())

	repo.On("Delete", mock.Anything, "syn-1").Return(nil)
	require.NoError(t, svc.RemoveSynonym(context.Background(), "syn-1"))

	repo.On("Delete", mock.Anything, "missing").Return(apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.RemoveSynonym(context.Background(), "missing"), apperrors.ErrNotFound)
}
