package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/observability"
)

// Driver-level failure paths are exercised against sqlmock; the happy
// paths run against real SQLite in the sibling test files.
func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	return NewStoreWithDB(db, logger), mock
}

func TestInsertUser_PostgresUniqueViolation(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	_, err := store.InsertUser(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, auth.ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory_PostgresUniqueViolation(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("INSERT INTO categories").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "categories_user_id_name_key"})

	_, err := store.CreateCategory(context.Background(), 1, "work")
	assert.ErrorIs(t, err, ErrDuplicateCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTodosByUser_QueryError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM todos").
		WillReturnError(errors.New("connection reset by peer"))

	_, err := store.ListTodosByUser(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_ExecError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectExec("DELETE FROM users").
		WillReturnError(errors.New("read-only transaction"))

	_, err := store.DeleteUser(context.Background(), 1)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOverdueTodos_QueryError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnError(errors.New("relation does not exist"))

	_, err := store.CountOverdueTodos(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
