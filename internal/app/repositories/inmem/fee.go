package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

type feeRepository struct {
	db   *DB
	undo *undoLog
}

func copyRecord(rec models.FeeRecord) *models.FeeRecord {
	if rec.Date != nil {
		d := *rec.Date
		rec.Date = &d
	}
	return &rec
}

func (repo *feeRepository) GetAll(ctx context.Context, status models.FeeStatus) ([]*models.FeeRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	rows := repo.db.data.fees[status]
	records := make([]*models.FeeRecord, 0, len(rows))
	for _, rec := range rows {
		records = append(records, copyRecord(rec))
	}
	return records, nil
}

func (repo *feeRepository) GetByStudent(ctx context.Context, status models.FeeStatus, studentID string) ([]*models.FeeRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := []*models.FeeRecord{}
	for _, rec := range repo.db.data.fees[status] {
		if rec.StudentID == studentID {
			records = append(records, copyRecord(rec))
		}
	}
	if status == models.FeeStatusPaid {
		sort.SliceStable(records, func(i, j int) bool {
			di, dj := dateOf(records[i]), dateOf(records[j])
			if di != dj {
				return di > dj
			}
			return records[i].PaymentID > records[j].PaymentID
		})
	}
	return records, nil
}

func dateOf(rec *models.FeeRecord) string {
	if rec.Date == nil {
		return ""
	}
	return *rec.Date
}

func (repo *feeRepository) Insert(ctx context.Context, status models.FeeStatus, record *models.FeeRecord) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.data.feeSeq[status]++
	key := repo.db.data.feeSeq[status]
	record.Status = status
	record.CreatedAt = time.Now().UTC()
	if status == models.FeeStatusPaid {
		record.PaymentID = key
	} else {
		record.ID = key
	}
	if status == models.FeeStatusOverdue {
		record.Date = nil
	}
	repo.db.data.fees[status] = append(repo.db.data.fees[status], *copyRecord(*record))
	repo.undo.record(func(t *tables) { removeFee(t, status, key) })
	return nil
}

func (repo *feeRepository) DeleteByStudent(ctx context.Context, status models.FeeStatus, studentID string) (int64, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rows := repo.db.data.fees[status]
	kept := rows[:0:0]
	var deleted int64
	var removed []models.FeeRecord
	for _, rec := range rows {
		if rec.StudentID == studentID {
			deleted++
			removed = append(removed, *copyRecord(rec))
			continue
		}
		kept = append(kept, rec)
	}
	repo.db.data.fees[status] = kept
	repo.undo.record(func(t *tables) {
		for _, rec := range removed {
			restoreFee(t, rec)
		}
	})
	return deleted, nil
}

func (repo *feeRepository) UpdateName(ctx context.Context, status models.FeeStatus, studentID, name string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rows := repo.db.data.fees[status]
	previous := map[int64]string{}
	for i := range rows {
		if rows[i].StudentID == studentID {
			previous[feeKey(rows[i])] = rows[i].Name
			rows[i].Name = name
		}
	}
	repo.undo.record(func(t *tables) {
		for i, rec := range t.fees[status] {
			if old, ok := previous[feeKey(rec)]; ok {
				t.fees[status][i].Name = old
			}
		}
	})
	return nil
}

func (repo *feeRepository) UpdateStudentID(ctx context.Context, status models.FeeStatus, oldID, newID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rows := repo.db.data.fees[status]
	moved := map[int64]bool{}
	for i := range rows {
		if rows[i].StudentID == oldID {
			moved[feeKey(rows[i])] = true
			rows[i].StudentID = newID
		}
	}
	repo.undo.record(func(t *tables) {
		for i, rec := range t.fees[status] {
			if moved[feeKey(rec)] {
				t.fees[status][i].StudentID = oldID
			}
		}
	})
	return nil
}

func (repo *feeRepository) GetPayment(ctx context.Context, paymentID int64) (*models.FeeRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, rec := range repo.db.data.fees[models.FeeStatusPaid] {
		if rec.PaymentID == paymentID {
			return copyRecord(rec), nil
		}
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (repo *feeRepository) UpdatePayment(ctx context.Context, paymentID int64, amount float64, date string) (*models.FeeRecord, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rows := repo.db.data.fees[models.FeeStatusPaid]
	for i := range rows {
		if rows[i].PaymentID == paymentID {
			previous := *copyRecord(rows[i])
			rows[i].Amount = amount
			rows[i].Date = &date
			repo.undo.record(func(t *tables) {
				for j, rec := range t.fees[models.FeeStatusPaid] {
					if rec.PaymentID == paymentID {
						t.fees[models.FeeStatusPaid][j].Amount = previous.Amount
						t.fees[models.FeeStatusPaid][j].Date = previous.Date
					}
				}
			})
			return copyRecord(rows[i]), nil
		}
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (repo *feeRepository) DeletePayment(ctx context.Context, paymentID int64) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rows := repo.db.data.fees[models.FeeStatusPaid]
	for i, rec := range rows {
		if rec.PaymentID == paymentID {
			repo.db.data.fees[models.FeeStatusPaid] = append(rows[:i:i], rows[i+1:]...)
			removed := *copyRecord(rec)
			repo.undo.record(func(t *tables) { restoreFee(t, removed) })
			return nil
		}
	}
	return apperrors.ErrPaymentNotFound
}

type feeEventRepository struct {
	db   *DB
	undo *undoLog
}

func (repo *feeEventRepository) Append(ctx context.Context, event *models.FeeEvent) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.data.eventSeq++
	event.ID = repo.db.data.eventSeq
	event.CreatedAt = time.Now().UTC()
	repo.db.data.events = append(repo.db.data.events, *event)
	id := event.ID
	repo.undo.record(func(t *tables) { removeEvent(t, id) })
	return nil
}

func (repo *feeEventRepository) GetByStudent(ctx context.Context, studentID string) ([]*models.FeeEvent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	events := []*models.FeeEvent{}
	for _, ev := range repo.db.data.events {
		if ev.StudentID == studentID {
			e := ev
			events = append(events, &e)
		}
	}
	return events, nil
}
