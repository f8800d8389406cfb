package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/repositories"
	inmemdb "github.com/yigit/schooladmin/internal/app/repositories/inmem"
	"github.com/yigit/schooladmin/internal/pkg/filestorage"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)

func freezeTime(t *testing.T) {
	t.Helper()
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = time.Now })
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.FeeEvent
}

func (p *recordingPublisher) PublishFeeEvent(event *models.FeeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type fakeStorage struct {
	err       error
	localPath string
	sawFile   bool
	objects   []string
}

func (f *fakeStorage) Upload(ctx context.Context, objectPath, localPath, contentType string) (string, error) {
	f.localPath = localPath
	_, statErr := os.Stat(localPath)
	f.sawFile = statErr == nil
	if f.err != nil {
		return "", f.err
	}
	f.objects = append(f.objects, objectPath)
	return f.PublicURL(objectPath), nil
}

func (f *fakeStorage) PublicURL(objectPath string) string {
	return "http://storage.test/public/" + objectPath
}

// failingFees fails every Insert into one bucket.
type failingFees struct {
	repositories.FeeRepository
	fail models.FeeStatus
}

func (f failingFees) Insert(ctx context.Context, status models.FeeStatus, record *models.FeeRecord) error {
	if status == f.fail {
		return errors.New("insert failed")
	}
	return f.FeeRepository.Insert(ctx, status, record)
}

type failingStore struct {
	*inmemdb.Store
	fail models.FeeStatus
}

func (s failingStore) Fees() repositories.FeeRepository {
	return failingFees{FeeRepository: s.Store.Fees(), fail: s.fail}
}

func (s failingStore) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repositories.Store) error {
		return fn(failingStore{Store: tx.(*inmemdb.Store), fail: s.fail})
	})
}

func newFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("profile_pic", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["profile_pic"][0]
}

type fixture struct {
	store     *inmemdb.Store
	storage   *fakeStorage
	scratch   *filestorage.Scratch
	publisher *recordingPublisher
	students  StudentService
	fees      FeeService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	freezeTime(t)

	scratch, err := filestorage.NewScratch(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		store:     inmemdb.NewStore(),
		storage:   &fakeStorage{},
		scratch:   scratch,
		publisher: &recordingPublisher{},
	}
	f.students = NewStudentService(f.store, f.storage, f.scratch, f.publisher, zerolog.Nop())
	f.fees = NewFeeService(f.store, f.publisher, 30, zerolog.Nop())
	return f
}

func (f *fixture) addStudent(t *testing.T, studentID, name string) *models.Student {
	t.Helper()
	student, err := f.students.Submit(context.Background(), &models.Student{
		StudentID: studentID,
		Name:      name,
		Course:    "Mathematics",
	}, nil)
	require.NoError(t, err)
	return student
}

func (f *fixture) bucket(t *testing.T, status models.FeeStatus, studentID string) []*models.FeeRecord {
	t.Helper()
	records, err := f.store.Fees().GetByStudent(context.Background(), status, studentID)
	require.NoError(t, err)
	return records
}

func (f *fixture) insertFee(t *testing.T, status models.FeeStatus, rec *models.FeeRecord) {
	t.Helper()
	require.NoError(t, f.store.Fees().Insert(context.Background(), status, rec))
}

func strPtr(s string) *string { return &s }
