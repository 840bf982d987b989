package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/domain/model"
)

func TestMemberRepo_HasPermission(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMemberRepo(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u1", "w1", model.PermCreateEvent).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u2", "w1", model.PermCreateEvent).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.HasPermission(context.Background(), core.PermissionCheck{
		UserID: "u1", WorkspaceID: "w1", Permission: model.PermCreateEvent,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasPermission(context.Background(), core.PermissionCheck{
		UserID: "u2", WorkspaceID: "w1", Permission: model.PermCreateEvent,
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMemberRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM members").
		WithArgs("w1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "workspace_id", "role_id", "joined_at"}).
			AddRow("m1", "u1", "w1", "r1", now))
	mock.ExpectQuery("FROM members").WithArgs("w1", "u2").WillReturnError(sql.ErrNoRows)

	m, err := repo.Get(context.Background(), "w1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "r1", m.RoleID)

	_, err = repo.Get(context.Background(), "w1", "u2")
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_UpdateRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMemberRepo(db)
	ownerRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"user_id", "role_id"}).AddRow("u1", "owner").AddRow("u2", "owner")
	}
	expectLock := func(rows *sqlmock.Rows) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT m.user_id, m.role_id .* FOR UPDATE OF m`).
			WithArgs("w1", model.OwnerRoleName).
			WillReturnRows(rows)
	}

	expectLock(ownerRows())
	mock.ExpectExec("UPDATE members SET role_id").
		WithArgs("w1", "u1", "r2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectLock(ownerRows())
	mock.ExpectExec("UPDATE members SET role_id").
		WithArgs("w1", "u9", "r2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	expectLock(ownerRows())
	mock.ExpectExec("UPDATE members SET role_id").
		WithArgs("w1", "u1", "foreign-role").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "members_role_id_workspace_id_fkey"})
	mock.ExpectRollback()

	require.NoError(t, repo.UpdateRole(context.Background(), model.Member{WorkspaceID: "w1", UserID: "u1", RoleID: "r2"}))
	assert.ErrorIs(t, repo.UpdateRole(context.Background(), model.Member{WorkspaceID: "w1", UserID: "u9", RoleID: "r2"}), ErrMemberNotFound)
	assert.ErrorIs(t,
		repo.UpdateRole(context.Background(), model.Member{WorkspaceID: "w1", UserID: "u1", RoleID: "foreign-role"}),
		ErrRoleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_UpdateRole_LastOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMemberRepo(db)
	soleOwner := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"user_id", "role_id"}).AddRow("u1", "owner")
	}

	// Demoting the only owner is refused without issuing the update.
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF m").WithArgs("w1", model.OwnerRoleName).WillReturnRows(soleOwner())
	mock.ExpectRollback()

	// Promoting someone else is unaffected by the owner count.
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF m").WithArgs("w1", model.OwnerRoleName).WillReturnRows(soleOwner())
	mock.ExpectExec("UPDATE members SET role_id").
		WithArgs("w1", "u2", "owner").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateRole(context.Background(), model.Member{WorkspaceID: "w1", UserID: "u1", RoleID: "r2"})
	assert.ErrorIs(t, err, ErrLastOwner)
	require.NoError(t, repo.UpdateRole(context.Background(), model.Member{WorkspaceID: "w1", UserID: "u2", RoleID: "owner"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepo_Upserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPermissionRepo(db)

	mock.ExpectQuery("INSERT INTO permission_categories").
		WithArgs(model.CategoryEvent).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("c1", model.CategoryEvent))
	mock.ExpectQuery("INSERT INTO permissions").
		WithArgs(model.PermCreateEvent, "Create new events", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "label", "category_id"}).
			AddRow("p1", model.PermCreateEvent, "Create new events", "c1"))

	cat, err := repo.UpsertCategory(context.Background(), model.CategoryEvent)
	require.NoError(t, err)
	p, err := repo.UpsertPermission(context.Background(),
		model.PermissionSeed{Name: model.PermCreateEvent, Label: "Create new events"}, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupCatalog(t *testing.T) {
	cats := []model.PermissionCategory{{ID: "c1", Name: "EVENT"}, {ID: "c2", Name: "TASK"}}
	perms := []model.Permission{
		{ID: "p1", Name: "CREATE_EVENT", CategoryID: "c1"},
		{ID: "p2", Name: "EDIT_EVENT", CategoryID: "c1"},
	}

	out := groupCatalog(cats, perms)
	require.Len(t, out, 2)
	assert.Len(t, out[0].Permissions, 2)
	assert.NotNil(t, out[1].Permissions)
	assert.Empty(t, out[1].Permissions)
}
