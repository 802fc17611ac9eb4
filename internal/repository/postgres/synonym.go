package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/pkg/database"
	apperrors "github.com/ErbolTakhirov/Abak-market/pkg/errors"
)

// SynonymRepository implements repository.SynonymRepository using PostgreSQL.
type SynonymRepository struct {
	db database.DBTX
}

// NewSynonymRepository creates a new PostgreSQL-backed synonym repository.
func NewSynonymRepository(db database.DBTX) *SynonymRepository {
	return &SynonymRepository{db: db}
}

// ListAll returns every synonym pair.
func (r *SynonymRepository) ListAll(ctx context.Context) ([]domain.SearchSynonym, error) {
	query := `
		SELECT id, term, alternate, created_at
		FROM search_synonyms
		ORDER BY term ASC, alternate ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list synonyms: %w", err)
	}
	defer rows.Close()

	var synonyms []domain.SearchSynonym
	for rows.Next() {
		var s domain.SearchSynonym
		if err := rows.Scan(&s.ID, &s.Term, &s.Alternate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan synonym row: %w", err)
		}
		synonyms = append(synonyms, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate synonym rows: %w", err)
	}

	if synonyms == nil {
		synonyms = []domain.SearchSynonym{}
	}

	return synonyms, nil
}

// Create inserts a new synonym pair. Both terms are stored lowercased.
func (r *SynonymRepository) Create(ctx context.Context, syn *domain.SearchSynonym) error {
	if syn.ID == "" {
		syn.ID = uuid.New().String()
	}
	if syn.CreatedAt.IsZero() {
		syn.CreatedAt = time.Now().UTC()
	}
	syn.Term = strings.ToLower(strings.TrimSpace(syn.Term))
	syn.Alternate = strings.ToLower(strings.TrimSpace(syn.Alternate))

	query := `
		INSERT INTO search_synonyms (id, term, alternate, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, syn.ID, syn.Term, syn.Alternate, syn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("synonym", "pair", syn.Term+"/"+syn.Alternate)
		}
		return fmt.Errorf("insert synonym: %w", err)
	}

	return nil
}

// Delete removes a synonym pair by ID.
func (r *SynonymRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM search_synonyms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete synonym: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("synonym", id)
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
