package employee

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	emplerrors "github.com/VISWAJIT-PS/fieldtrack-pro/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, e *Employee) error
	findAllFn        func(ctx context.Context) ([]Employee, error)
	findByIDFn       func(ctx context.Context, id string) (*Employee, error)
	findOptionsFn    func(ctx context.Context) ([]Employee, error)
	getWorkStationFn func(ctx context.Context, stationID string) (*WorkStationRef, error)
	updateFn         func(ctx context.Context, e *Employee) error
	deleteFn         func(ctx context.Context, id string) error
	deleteAttFn      func(ctx context.Context, employeeID string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                    { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error   { return f.createFn(ctx, e) }
func (f *fakeRepo) FindAll(ctx context.Context) ([]Employee, error) { return f.findAllFn(ctx) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindOptions(ctx context.Context) ([]Employee, error) { return f.findOptionsFn(ctx) }
func (f *fakeRepo) GetWorkStation(ctx context.Context, stationID string) (*WorkStationRef, error) {
	return f.getWorkStationFn(ctx, stationID)
}
func (f *fakeRepo) Update(ctx context.Context, e *Employee) error { return f.updateFn(ctx, e) }
func (f *fakeRepo) Delete(ctx context.Context, id string) error   { return f.deleteFn(ctx, id) }
func (f *fakeRepo) DeleteAttendanceByEmployee(ctx context.Context, employeeID string) error {
	return f.deleteAttFn(ctx, employeeID)
}

type fakeCounter struct {
	nextFn func(ctx context.Context, counterType string) (int64, error)
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	return f.nextFn(ctx, counterType)
}

func TestService_Create_GeneratesEmployeeNumber(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	var saved Employee
	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Employee) error { saved = *e; return nil },
	}
	counter := &fakeCounter{
		nextFn: func(ctx context.Context, counterType string) (int64, error) {
			assert.Equal(t, "employee_number", counterType)
			return 123, nil
		},
	}

	svc := NewService(db, repo, counter, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, CreateEmployeeRequest{
		FullName:    "Asha Verma",
		DateOfBirth: "1994-05-17",
	})

	assert.NoError(t, err)
	assert.Equal(t, "EMP-000123", resp.EmployeeNumber)
	assert.Equal(t, "EMP-000123", saved.EmployeeNumber)
	assert.Equal(t, "employee", saved.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_SnapshotsStationLocation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	stationID := uuid.New()
	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Employee) error { return nil },
		getWorkStationFn: func(ctx context.Context, id string) (*WorkStationRef, error) {
			assert.Equal(t, stationID.String(), id)
			return &WorkStationRef{ID: stationID, Name: "North Depot", Latitude: 28.6139, Longitude: 77.2090}, nil
		},
	}
	counter := &fakeCounter{nextFn: func(ctx context.Context, counterType string) (int64, error) { return 1, nil }}

	svc := NewService(db, repo, counter, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, CreateEmployeeRequest{
		FullName:      "Asha Verma",
		DateOfBirth:   "1994-05-17",
		WorkStationID: stationID.String(),
	})

	assert.NoError(t, err)
	assert.Equal(t, stationID.String(), resp.WorkStationID)
	if assert.NotNil(t, resp.WorkLatitude) {
		assert.InDelta(t, 28.6139, *resp.WorkLatitude, 1e-9)
	}
	assert.NotEmpty(t, resp.WorkLocationSyncedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_UnknownStationRejected(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		getWorkStationFn: func(ctx context.Context, id string) (*WorkStationRef, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	counter := &fakeCounter{nextFn: func(ctx context.Context, counterType string) (int64, error) { return 1, nil }}

	svc := NewService(db, repo, counter, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:      "Asha Verma",
		DateOfBirth:   "1994-05-17",
		WorkStationID: uuid.New().String(),
	})

	assert.ErrorIs(t, err, emplerrors.ErrWorkStationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidDateOfBirth(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, nil)

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:    "Asha Verma",
		DateOfBirth: "17-05-1994",
	})

	assert.ErrorIs(t, err, emplerrors.ErrInvalidDateOfBirth)
}

func TestService_Create_DuplicateNumberMapsToConflict(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_number"}
		},
	}
	counter := &fakeCounter{nextFn: func(ctx context.Context, counterType string) (int64, error) { return 1, nil }}

	svc := NewService(db, repo, counter, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:       "Asha Verma",
		DateOfBirth:    "1994-05-17",
		EmployeeNumber: "EMP-000100",
	})

	assert.ErrorIs(t, err, emplerrors.ErrEmployeeNumberAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_ClearingStationClearsSnapshot(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	stationID := uuid.New()
	lat, long := 28.6139, 77.2090
	syncedAt := time.Now().UTC()
	existing := Employee{
		ID:                   uuid.New(),
		EmployeeNumber:       "EMP-000001",
		FullName:             "Asha Verma",
		DateOfBirth:          time.Date(1994, 5, 17, 0, 0, 0, 0, time.UTC),
		Role:                 "employee",
		WorkStationID:        &stationID,
		WorkLatitude:         &lat,
		WorkLongitude:        &long,
		WorkLocationSyncedAt: &syncedAt,
	}

	var saved Employee
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Employee, error) { e := existing; return &e, nil },
		updateFn:   func(ctx context.Context, e *Employee) error { saved = *e; return nil },
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), existing.ID.String(), UpdateEmployeeRequest{
		EmployeeNumber: "EMP-000001",
		FullName:       "Asha Verma",
		DateOfBirth:    "1994-05-17",
	})

	assert.NoError(t, err)
	assert.Nil(t, saved.WorkStationID)
	assert.Nil(t, saved.WorkLatitude)
	assert.Nil(t, saved.WorkLocationSyncedAt)
	assert.Empty(t, resp.WorkStationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_RemovesAttendanceInSameTx(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	id := uuid.New()
	var attendanceDeleted, employeeDeleted bool
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, got string) (*Employee, error) {
			return &Employee{ID: id}, nil
		},
		deleteAttFn: func(ctx context.Context, employeeID string) error {
			assert.Equal(t, id.String(), employeeID)
			attendanceDeleted = true
			return nil
		},
		deleteFn: func(ctx context.Context, got string) error {
			assert.True(t, attendanceDeleted, "attendance rows must go before the employee row")
			employeeDeleted = true
			return nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := svc.Delete(context.Background(), id.String())

	assert.NoError(t, err)
	assert.True(t, employeeDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := svc.Delete(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, emplerrors.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetOptions_FallsBackToRepoWithoutCache(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findOptionsFn: func(ctx context.Context) ([]Employee, error) {
			return []Employee{
				{ID: uuid.New(), EmployeeNumber: "EMP-000001", FullName: "Asha Verma", Role: "employee"},
				{ID: uuid.New(), EmployeeNumber: "EMP-000002", FullName: "Ravi Nair", Role: "employee"},
			}, nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	resp, err := svc.GetOptions(context.Background())

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "Asha Verma", resp[0].FullName)
}

func TestService_GetAll_RepoError(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findAllFn: func(ctx context.Context) ([]Employee, error) { return nil, errors.New("db error") },
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	resp, err := svc.GetAll(context.Background())

	assert.Error(t, err)
	assert.Nil(t, resp)
}
