package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/bankexport"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type transferFileRepository struct {
	db *database.DB
}

func NewTransferFileRepository(db *database.DB) bankexport.TransferFileRepository {
	return &transferFileRepository{db: db}
}

const transferFileColumns = `
	id, file_name, year, month, bank_code, format, total_records, total_amount, status, created_by, created_at`

func scanTransferFile(row pgx.Row) (bankexport.TransferFile, error) {
	var f bankexport.TransferFile
	err := row.Scan(&f.ID, &f.FileName, &f.Year, &f.Month, &f.BankCode, &f.Format,
		&f.TotalRecords, &f.TotalAmount, &f.Status, &f.CreatedBy, &f.CreatedAt)
	return f, err
}

func (r *transferFileRepository) Create(ctx context.Context, f bankexport.TransferFile) (bankexport.TransferFile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bank_transfer_files (file_name, year, month, bank_code, format,
			total_records, total_amount, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, f.FileName, f.Year, f.Month, f.BankCode, f.Format,
		f.TotalRecords, f.TotalAmount, f.Status, f.CreatedBy).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return bankexport.TransferFile{}, fmt.Errorf("failed to create bank transfer file: %w", err)
	}
	return f, nil
}

func (r *transferFileRepository) GetByID(ctx context.Context, id int64) (bankexport.TransferFile, error) {
	q := GetQuerier(ctx, r.db)

	f, err := scanTransferFile(q.QueryRow(ctx,
		`SELECT `+transferFileColumns+` FROM bank_transfer_files WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return bankexport.TransferFile{}, bankexport.ErrFileNotFound
		}
		return bankexport.TransferFile{}, fmt.Errorf("failed to get bank transfer file: %w", err)
	}
	return f, nil
}

func (r *transferFileRepository) List(ctx context.Context, year, month int) ([]bankexport.TransferFile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + transferFileColumns + ` FROM bank_transfer_files`
	var args []any
	switch {
	case year > 0 && month > 0:
		query += ` WHERE year = $1 AND month = $2`
		args = append(args, year, month)
	case year > 0:
		query += ` WHERE year = $1`
		args = append(args, year)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank transfer files: %w", err)
	}
	defer rows.Close()

	var out []bankexport.TransferFile
	for rows.Next() {
		f, err := scanTransferFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transfer file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *transferFileRepository) SetStatus(ctx context.Context, id int64, status bankexport.FileStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE bank_transfer_files SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to set bank transfer file status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return bankexport.ErrFileNotFound
	}
	return nil
}
