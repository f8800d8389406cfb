package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/schooladmin/internal/app/models"
)

// StudentRepository is the students table.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetAll(ctx context.Context) ([]*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	// Update applies a partial column map and returns the updated row.
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// FeeRepository addresses the three fee tables, selected by status.
type FeeRepository interface {
	GetAll(ctx context.Context, status models.FeeStatus) ([]*models.FeeRecord, error)
	GetByStudent(ctx context.Context, status models.FeeStatus, studentID string) ([]*models.FeeRecord, error)
	Insert(ctx context.Context, status models.FeeStatus, record *models.FeeRecord) error
	DeleteByStudent(ctx context.Context, status models.FeeStatus, studentID string) (int64, error)
	UpdateName(ctx context.Context, status models.FeeStatus, studentID, name string) error
	// UpdateStudentID re-keys every row of the bucket from oldID to newID.
	UpdateStudentID(ctx context.Context, status models.FeeStatus, oldID, newID string) error

	// Payment rows of the paid table, addressed by payment_id.
	GetPayment(ctx context.Context, paymentID int64) (*models.FeeRecord, error)
	UpdatePayment(ctx context.Context, paymentID int64, amount float64, date string) (*models.FeeRecord, error)
	DeletePayment(ctx context.Context, paymentID int64) error
}

// FeeEventRepository is the append-only fee transition log.
type FeeEventRepository interface {
	Append(ctx context.Context, event *models.FeeEvent) error
	GetByStudent(ctx context.Context, studentID string) ([]*models.FeeEvent, error)
}

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Students() StudentRepository
	Fees() FeeRepository
	Events() FeeEventRepository

	// WithTx runs fn against a transactional view of the store. The transaction
	// commits when fn returns nil and rolls back otherwise. Calling WithTx on a
	// transactional store reuses the running transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close()
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
