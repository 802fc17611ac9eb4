package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
	apperrors "github.com/ErbolTakhirov/Abak-market/pkg/errors"
)

// SynonymIndex expands a query into variant spellings using the persisted
// synonym table. The table is small and changes rarely, so it is held as an
// in-memory snapshot refreshed lazily after reloadPeriod.
type SynonymIndex struct {
	repo         repository.SynonymRepository
	logger       *slog.Logger
	reloadPeriod time.Duration

	mu         sync.RWMutex
	alternates map[string][]string // alternate -> canonical terms
	loadedAt   time.Time
}

// NewSynonymIndex creates a synonym index over the given repository.
func NewSynonymIndex(repo repository.SynonymRepository, reloadPeriod time.Duration, logger *slog.Logger) *SynonymIndex {
	return &SynonymIndex{
		repo:         repo,
		logger:       logger,
		reloadPeriod: reloadPeriod,
	}
}

// Expand returns the normalized query plus one variant per synonym hit: for
// every token matching an alternate term, a variant with that token replaced
// by its canonical term. Never fails; a stale or missing snapshot degrades to
// the original query alone.
func (s *SynonymIndex) Expand(ctx context.Context, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	variants := []string{query}
	if query == "" {
		return variants
	}

	alternates := s.snapshot(ctx)
	if len(alternates) == 0 {
		return variants
	}

	seen := map[string]bool{query: true}
	tokens := strings.Fields(query)
	for i, token := range tokens {
		for _, canonical := range alternates[token] {
			replaced := make([]string, len(tokens))
			copy(replaced, tokens)
			replaced[i] = canonical
			variant := strings.Join(replaced, " ")
			if !seen[variant] {
				seen[variant] = true
				variants = append(variants, variant)
			}
		}
	}

	return variants
}

// Invalidate drops the snapshot so the next Expand reloads from storage.
// Called after synonym writes.
func (s *SynonymIndex) Invalidate() {
	s.mu.Lock()
	s.loadedAt = time.Time{}
	s.mu.Unlock()
}

// snapshot returns the current alternate map, reloading it when stale. A
// failed reload keeps serving the previous snapshot.
func (s *SynonymIndex) snapshot(ctx context.Context) map[string][]string {
	s.mu.RLock()
	fresh := time.Since(s.loadedAt) < s.reloadPeriod
	current := s.alternates
	s.mu.RUnlock()

	if fresh {
		return current
	}

	synonyms, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "synonym reload failed, using previous snapshot",
			slog.String("error", err.Error()),
		)
		return current
	}

	alternates := make(map[string][]string, len(synonyms))
	for _, syn := range synonyms {
		alt := strings.ToLower(syn.Alternate)
		alternates[alt] = append(alternates[alt], strings.ToLower(syn.Term))
	}

	s.mu.Lock()
	s.alternates = alternates
	s.loadedAt = time.Now()
	s.mu.Unlock()

	return alternates
}

// SynonymService exposes synonym administration on top of the index.
type SynonymService struct {
	repo   repository.SynonymRepository
	index  *SynonymIndex
	logger *slog.Logger
}

// NewSynonymService creates a synonym admin service.
func NewSynonymService(repo repository.SynonymRepository, index *SynonymIndex, logger *slog.Logger) *SynonymService {
	return &SynonymService{repo: repo, index: index, logger: logger}
}

// ListSynonyms returns all synonym pairs.
func (s *SynonymService) ListSynonyms(ctx context.Context) ([]domain.SearchSynonym, error) {
	return s.repo.ListAll(ctx)
}

// AddSynonym registers a new (canonical, alternate) pair and refreshes the index.
func (s *SynonymService) AddSynonym(ctx context.Context, term, alternate string) (*domain.SearchSynonym, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	alternate = strings.ToLower(strings.TrimSpace(alternate))

	if term == "" || alternate == "" {
		return nil, apperrors.InvalidInput("both term and alternate are required")
	}
	if term == alternate {
		return nil, apperrors.InvalidInput("term and alternate must differ")
	}

	syn := &domain.SearchSynonym{Term: term, Alternate: alternate}
	if err := s.repo.Create(ctx, syn); err != nil {
		return nil, err
	}

	s.index.Invalidate()

	s.logger.InfoContext(ctx, "synonym added",
		slog.String("term", term),
		slog.String("alternate", alternate),
	)

	return syn, nil
}

// RemoveSynonym deletes a synonym pair and refreshes the index.
func (s *SynonymService) RemoveSynonym(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.index.Invalidate()
	return nil
}
