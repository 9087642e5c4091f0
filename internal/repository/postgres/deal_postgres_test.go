package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDealPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDealPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(int64(5), "Acme Holdings Series B", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM deals WHERE id = ?").
			WithArgs(int64(5)).
			WillReturnRows(rows)

		deal, err := repo.FindByID(ctx, 5)

		assert.NoError(t, err)
		assert.Equal(t, "Acme Holdings Series B", deal.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM deals WHERE id = ?").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		deal, err := repo.FindByID(ctx, 99)

		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, deal)
	})
}

func TestDealPostgres_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDealPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(ctx, 5)

	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestDealPostgres_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDealPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow(int64(1), "Acme Holdings Series B", time.Now()).
		AddRow(int64(2), "Borealis Acquisition", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM deals ORDER BY id").
		WillReturnRows(rows)

	deals, err := repo.ListAll(ctx)

	assert.NoError(t, err)
	assert.Len(t, deals, 2)
	assert.Equal(t, "Borealis Acquisition", deals[1].Name)
}
