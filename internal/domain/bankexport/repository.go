package bankexport

import "context"

type TransferFileRepository interface {
	Create(ctx context.Context, f TransferFile) (TransferFile, error)
	GetByID(ctx context.Context, id int64) (TransferFile, error)
	List(ctx context.Context, year, month int) ([]TransferFile, error)
	SetStatus(ctx context.Context, id int64, status FileStatus) error
}
