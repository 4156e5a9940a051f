package workstation

import (
	"context"
	"database/sql"
	"testing"

	wserrors "github.com/VISWAJIT-PS/fieldtrack-pro/internal/workstation/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, ws *WorkStation) error
	findAllFn  func(ctx context.Context) ([]WorkStation, error)
	findByIDFn func(ctx context.Context, id string) (*WorkStation, error)
	updateFn   func(ctx context.Context, ws *WorkStation) error
	deleteFn   func(ctx context.Context, id string) error
	resyncFn   func(ctx context.Context, ws *WorkStation) error
	countFn    func(ctx context.Context, id string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                      { return f }
func (f *fakeRepo) Create(ctx context.Context, ws *WorkStation) error { return f.createFn(ctx, ws) }
func (f *fakeRepo) FindAll(ctx context.Context) ([]WorkStation, error) {
	return f.findAllFn(ctx)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*WorkStation, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, ws *WorkStation) error { return f.updateFn(ctx, ws) }
func (f *fakeRepo) Delete(ctx context.Context, id string) error       { return f.deleteFn(ctx, id) }
func (f *fakeRepo) ResyncEmployeeLocations(ctx context.Context, ws *WorkStation) error {
	return f.resyncFn(ctx, ws)
}
func (f *fakeRepo) CountAssignedEmployees(ctx context.Context, id string) (int64, error) {
	return f.countFn(ctx, id)
}

func f64(v float64) *float64 { return &v }

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved WorkStation
	repo := &fakeRepo{
		createFn: func(ctx context.Context, ws *WorkStation) error { saved = *ws; return nil },
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateWorkStationRequest{
		Name:      "  North Depot ",
		Latitude:  f64(28.6139),
		Longitude: f64(77.2090),
	})

	assert.NoError(t, err)
	assert.Equal(t, "North Depot", saved.Name)
	assert.Equal(t, 28.6139, resp.Latitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_DuplicateName(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, ws *WorkStation) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_workstation_name"}
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateWorkStationRequest{
		Name:      "North Depot",
		Latitude:  f64(28.6139),
		Longitude: f64(77.2090),
	})

	assert.ErrorIs(t, err, wserrors.ErrWorkStationNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_MoveTriggersResync(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	existing := WorkStation{ID: uuid.New(), Name: "North Depot", Latitude: 28.6139, Longitude: 77.2090}
	resynced := false
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*WorkStation, error) { ws := existing; return &ws, nil },
		updateFn:   func(ctx context.Context, ws *WorkStation) error { return nil },
		resyncFn: func(ctx context.Context, ws *WorkStation) error {
			resynced = true
			assert.Equal(t, 28.7000, ws.Latitude)
			return nil
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Update(context.Background(), existing.ID.String(), UpdateWorkStationRequest{
		Name:      "North Depot",
		Latitude:  f64(28.7000),
		Longitude: f64(77.2090),
	})

	assert.NoError(t, err)
	assert.True(t, resynced, "moving the station must resync employee copies")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_SameCoordinatesSkipsResync(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	existing := WorkStation{ID: uuid.New(), Name: "North Depot", Latitude: 28.6139, Longitude: 77.2090}
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*WorkStation, error) { ws := existing; return &ws, nil },
		updateFn:   func(ctx context.Context, ws *WorkStation) error { return nil },
		resyncFn: func(ctx context.Context, ws *WorkStation) error {
			t.Fatal("resync must not run when coordinates are unchanged")
			return nil
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), existing.ID.String(), UpdateWorkStationRequest{
		Name:      "Renamed Depot",
		Latitude:  f64(28.6139),
		Longitude: f64(77.2090),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Renamed Depot", resp.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*WorkStation, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := svc.Delete(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, wserrors.ErrWorkStationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
