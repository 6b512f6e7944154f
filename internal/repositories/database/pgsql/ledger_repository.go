package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	"github.com/sarrafx/recon_backend/internal/models"
	"github.com/sarrafx/recon_backend/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendEntry persists a sealed entry and its lines within a DB transaction.
// The unique index on (tenant_id, sequence_no) is the multi-instance guard:
// losing the race surfaces as apperrors.ErrIntegrityConflict.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry) error {
	modelEntry, modelLines := mapping.ToModelJournalEntry(entry)

	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, tenant_id, transaction_id, sequence_no, description,
			reference, currency_code, posted_at, prev_hash, hash, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.TenantID,
		modelEntry.TransactionID,
		modelEntry.SequenceNo,
		modelEntry.Description,
		modelEntry.Reference,
		modelEntry.CurrencyCode,
		modelEntry.PostedAt,
		modelEntry.PrevHash,
		modelEntry.Hash,
		modelEntry.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrIntegrityConflict
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (entry_id, position, account_id, debit, credit)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range modelLines {
		batch.Queue(lineQuery, line.EntryID, line.Position, line.AccountID, line.Debit, line.Credit)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit journal entry "+modelEntry.EntryID, err)
	}

	return nil
}

// ChainHead returns the hash and sequence number of the tenant's latest entry.
func (r *PgxLedgerRepository) ChainHead(ctx context.Context, tenantID string) (string, int64, error) {
	query := `
		SELECT hash, sequence_no
		FROM journal_entries
		WHERE tenant_id = $1
		ORDER BY sequence_no DESC
		LIMIT 1;
	`
	var hash string
	var sequenceNo int64

	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(&hash, &sequenceNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Empty chain: the first entry seals against an empty hash.
			return "", 0, nil
		}
		return "", 0, apperrors.NewAppError(500, "failed to fetch chain head for tenant "+tenantID, err)
	}

	return hash, sequenceNo, nil
}

// FindEntriesByTransaction retrieves all entries bound to one transaction,
// ordered by sequence number.
func (r *PgxLedgerRepository) FindEntriesByTransaction(ctx context.Context, tenantID, transactionID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT entry_id, tenant_id, transaction_id, sequence_no, description,
		       reference, currency_code, posted_at, prev_hash, hash, created_by
		FROM journal_entries
		WHERE tenant_id = $1 AND transaction_id = $2
		ORDER BY sequence_no;
	`
	return r.queryEntries(ctx, query, tenantID, transactionID)
}

// FindEntriesByTenantWindow retrieves a tenant's entries posted within the
// window, ordered by sequence number.
func (r *PgxLedgerRepository) FindEntriesByTenantWindow(ctx context.Context, tenantID string, window domain.ReportWindow) ([]domain.JournalEntry, error) {
	query := `
		SELECT entry_id, tenant_id, transaction_id, sequence_no, description,
		       reference, currency_code, posted_at, prev_hash, hash, created_by
		FROM journal_entries
		WHERE tenant_id = $1
		  AND ($2::timestamptz IS NULL OR posted_at >= $2)
		  AND ($3::timestamptz IS NULL OR posted_at <= $3)
		ORDER BY sequence_no;
	`
	return r.queryEntries(ctx, query, tenantID, window.From, window.To)
}

// queryEntries runs an entry query and loads the lines for all returned
// entries in one follow-up query.
func (r *PgxLedgerRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	modelEntries := []models.JournalEntry{}
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.TenantID,
			&m.TransactionID,
			&m.SequenceNo,
			&m.Description,
			&m.Reference,
			&m.CurrencyCode,
			&m.PostedAt,
			&m.PrevHash,
			&m.Hash,
			&m.CreatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	if len(modelEntries) == 0 {
		return []domain.JournalEntry{}, nil
	}

	entryIDs := make([]string, len(modelEntries))
	for i, m := range modelEntries {
		entryIDs[i] = m.EntryID
	}

	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m, linesByEntry[m.EntryID])
	}
	return entries, nil
}

// findLinesByEntryIDs retrieves all lines for the given entries, keyed by
// entry ID and ordered by position.
func (r *PgxLedgerRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	query := `
		SELECT entry_id, position, account_id, debit, credit
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, position;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]models.JournalLine)
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.EntryID, &l.Position, &l.AccountID, &l.Debit, &l.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		linesByEntry[l.EntryID] = append(linesByEntry[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}

	return linesByEntry, nil
}
