// Package inmemdb is a process-local Store used by the "memory" database driver
// and by tests.
package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/repositories"
)

type tables struct {
	students []models.Student
	fees     map[models.FeeStatus][]models.FeeRecord
	events   []models.FeeEvent

	studentSeq int64
	feeSeq     map[models.FeeStatus]int64
	eventSeq   int64
}

func newTables() *tables {
	return &tables{
		fees:   map[models.FeeStatus][]models.FeeRecord{},
		feeSeq: map[models.FeeStatus]int64{},
	}
}

// undoLog collects the inverse of every write made inside one transaction.
// Steps locate rows by key, so rollback leaves rows written by other callers
// untouched. Sequences are not rewound.
type undoLog struct {
	steps []func(t *tables)
}

// record is a no-op outside a transaction.
func (u *undoLog) record(step func(t *tables)) {
	if u != nil {
		u.steps = append(u.steps, step)
	}
}

func (u *undoLog) rollback(t *tables) {
	for i := len(u.steps) - 1; i >= 0; i-- {
		u.steps[i](t)
	}
}

// DB holds the tables behind a mutex.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *tables
}

// Store implements repositories.Store in memory.
type Store struct {
	db   *DB
	undo *undoLog // set inside a transaction
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{db: &DB{data: newTables()}}
}

func (s *Store) Students() repositories.StudentRepository {
	return &studentRepository{db: s.db, undo: s.undo}
}

func (s *Store) Fees() repositories.FeeRepository {
	return &feeRepository{db: s.db, undo: s.undo}
}

func (s *Store) Events() repositories.FeeEventRepository {
	return &feeEventRepository{db: s.db, undo: s.undo}
}

// WithTx serialises transactions. When fn fails, the writes fn made are undone
// in reverse order; writes made meanwhile outside the transaction are kept.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.undo != nil {
		return fn(s)
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	undo := &undoLog{}
	if err := fn(&Store{db: s.db, undo: undo}); err != nil {
		s.db.mu.Lock()
		undo.rollback(s.db.data)
		s.db.mu.Unlock()
		return err
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Close is a no-op.
func (s *Store) Close() {}

func removeStudent(t *tables, id int64) {
	for i, s := range t.students {
		if s.ID == id {
			t.students = append(t.students[:i:i], t.students[i+1:]...)
			return
		}
	}
}

// restoreStudent puts row back in primary key order, replacing any row with
// the same key.
func restoreStudent(t *tables, row models.Student) {
	removeStudent(t, row.ID)
	i := sort.Search(len(t.students), func(i int) bool { return t.students[i].ID > row.ID })
	t.students = append(t.students[:i:i], append([]models.Student{row}, t.students[i:]...)...)
}

// replaceStudent overwrites the row with the same key, if it still exists.
func replaceStudent(t *tables, row models.Student) {
	for i := range t.students {
		if t.students[i].ID == row.ID {
			t.students[i] = row
			return
		}
	}
}

func feeKey(rec models.FeeRecord) int64 {
	if rec.Status == models.FeeStatusPaid {
		return rec.PaymentID
	}
	return rec.ID
}

func removeFee(t *tables, status models.FeeStatus, key int64) {
	rows := t.fees[status]
	for i, rec := range rows {
		if feeKey(rec) == key {
			t.fees[status] = append(rows[:i:i], rows[i+1:]...)
			return
		}
	}
}

func restoreFee(t *tables, row models.FeeRecord) {
	removeFee(t, row.Status, feeKey(row))
	rows := t.fees[row.Status]
	key := feeKey(row)
	i := sort.Search(len(rows), func(i int) bool { return feeKey(rows[i]) > key })
	t.fees[row.Status] = append(rows[:i:i], append([]models.FeeRecord{row}, rows[i:]...)...)
}

func removeEvent(t *tables, id int64) {
	for i, ev := range t.events {
		if ev.ID == id {
			t.events = append(t.events[:i:i], t.events[i+1:]...)
			return
		}
	}
}
