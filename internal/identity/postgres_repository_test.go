package identity

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	insertUserQuery = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*salt,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id$`
	selectUserQuery = `(?s)^SELECT\s+id,\s*email,\s*salt,\s*password_hash,\s*disabled\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`
)

func TestPostgresCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(insertUserQuery).
		WithArgs("a@b.com", []byte("salt"), []byte("hash")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	u, err := repo.Create(context.Background(), &User{Email: "a@b.com", Salt: []byte("salt"), PasswordHash: []byte("hash")})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(insertUserQuery).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &User{Email: "a@b.com"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(insertUserQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &User{Email: "a@b.com"})
	require.ErrorContains(t, err, "db error: db down")
}

func TestPostgresGetByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(selectUserQuery).WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "salt", "password_hash", "disabled"}).
			AddRow("u-1", "a@b.com", []byte("salt"), []byte("hash"), true))

	u, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "u-1", Email: "a@b.com", Salt: []byte("salt"), PasswordHash: []byte("hash"), Disabled: true}, u)
}

func TestPostgresGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(selectUserQuery).WithArgs("x@y.z").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "x@y.z")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
