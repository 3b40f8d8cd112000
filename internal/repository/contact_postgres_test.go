package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsmith/mailsmith/internal/domain"
)

func TestContactRepository_UpsertContact(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)

	first := "Sam"
	contact := &domain.Contact{
		Email:      "sam@x.com",
		ProjectID:  "p1",
		FirstName:  &first,
		CustomData: domain.JSONMap(`{"plan":"pro"}`),
	}

	mock.ExpectExec("INSERT INTO contacts(.|\\s)*ON CONFLICT").
		WithArgs(
			contact.Email, contact.ProjectID, contact.FirstName,
			contact.LastName, contact.Language, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertContact(context.Background(), contact))
	assert.False(t, contact.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_GetContactByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)

	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"email", "project_id", "first_name", "last_name",
			"language", "custom_data", "created_at", "updated_at",
		}).AddRow(
			"sam@x.com", "p1", "Sam", nil, nil,
			[]byte(`{"plan":"pro"}`), now, now,
		)

		mock.ExpectQuery("SELECT(.|\\s)*FROM contacts").
			WithArgs("p1", "sam@x.com").
			WillReturnRows(rows)

		contact, err := repo.GetContactByEmail(context.Background(), "p1", "sam@x.com")
		require.NoError(t, err)
		require.NotNil(t, contact.FirstName)
		assert.Equal(t, "Sam", *contact.FirstName)
		assert.Nil(t, contact.LastName)
		assert.Equal(t, "pro", contact.CustomScope()["plan"])
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\\s)*FROM contacts").
			WithArgs("p1", "missing@x.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetContactByEmail(context.Background(), "p1", "missing@x.com")
		var notFound *domain.ErrContactNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_DeleteContact(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM contacts").
			WithArgs("p1", "sam@x.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteContact(context.Background(), "p1", "sam@x.com"))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM contacts").
			WithArgs("p1", "missing@x.com").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteContact(context.Background(), "p1", "missing@x.com")
		var notFound *domain.ErrContactNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_ListContacts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"email", "project_id", "first_name", "last_name",
		"language", "custom_data", "created_at", "updated_at",
	}).
		AddRow("a@x.com", "p1", nil, nil, nil, nil, now, now).
		AddRow("b@x.com", "p1", "B", nil, nil, nil, now, now)

	mock.ExpectQuery("SELECT(.|\\s)*FROM contacts(.|\\s)*LIMIT 50 OFFSET 0").
		WithArgs("p1").
		WillReturnRows(rows)

	contacts, err := repo.ListContacts(context.Background(), "p1", 50, 0)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "a@x.com", contacts[0].Email)
	assert.Nil(t, contacts[0].FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}
