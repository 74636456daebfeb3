package persistence

import (
	"context"
	"testing"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveUser(t *testing.T, repo *GormUserRepository, username string, role identity.Role, department string) *identity.User {
	t.Helper()
	id, err := repo.NextID(context.Background())
	require.NoError(t, err)
	user, err := identity.NewUser(id, username, "secret1", role, department)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestGormUserRepository(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormUserRepository(db.DB)
	ctx := context.Background()

	saveUser(t, repo, "admin", identity.RoleAdmin, plan.DepartmentStorage)
	voda := saveUser(t, repo, "voda", identity.RoleUser, plan.DepartmentWater)

	t.Run("lookup ignores case", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, " VODA ")
		require.NoError(t, err)
		assert.Equal(t, voda.ID, found.ID)
		assert.Equal(t, plan.DepartmentWater, found.Department)
		assert.True(t, found.VerifyPassword("secret1"))
	})

	t.Run("exists and counts", func(t *testing.T) {
		ok, err := repo.ExistsByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.True(t, ok)

		admins, err := repo.CountByRole(ctx, identity.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), admins)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup, err := identity.NewUser(99, "voda", "secret1", identity.RoleUser, plan.DepartmentAir)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("list ordered by username", func(t *testing.T) {
		users, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "admin", users[0].Username)
		assert.Equal(t, "voda", users[1].Username)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "voda"))
		_, err := repo.FindByUsername(ctx, "voda")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "voda"), shared.ErrNotFound)
	})
}
