package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/userservice/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(name, email string) user.User {
	return user.User{Name: name, Email: email, CreatedAt: time.Now().UTC()}
}

func insert(t *testing.T, repo *UsersRepo, u user.User) user.User {
	t.Helper()

	var out user.User
	err := repo.InTx(context.Background(), func(q user.Queries) error {
		var err error
		out, err = q.Insert(context.Background(), u)
		return err
	})
	require.NoError(t, err)

	return out
}

func TestUsersRepo_InsertAssignsIncreasingIDs(t *testing.T) {
	repo := NewUsersRepo()

	a := insert(t, repo, newUser("A", "a@example.com"))
	b := insert(t, repo, newUser("B", "b@example.com"))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestUsersRepo_InsertDuplicateEmail(t *testing.T) {
	repo := NewUsersRepo()
	insert(t, repo, newUser("A", "a@example.com"))

	err := repo.InTx(context.Background(), func(q user.Queries) error {
		_, err := q.Insert(context.Background(), newUser("A2", "a@example.com"))
		return err
	})

	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUsersRepo_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(q user.Queries) error {
		if _, err := q.Insert(ctx, newUser("A", "a@example.com")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = repo.InTx(ctx, func(q user.Queries) error {
		all, err := q.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		taken, err := q.ExistsByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.False(t, taken)
		return nil
	})
	require.NoError(t, err)

	// ids are not reused after a rollback
	next := insert(t, repo, newUser("B", "b@example.com"))
	assert.Equal(t, int64(2), next.ID)
}

func TestUsersRepo_FindAllKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	a := insert(t, repo, newUser("A", "a@example.com"))
	b := insert(t, repo, newUser("B", "b@example.com"))
	c := insert(t, repo, newUser("C", "c@example.com"))

	require.NoError(t, repo.InTx(ctx, func(q user.Queries) error {
		return q.DeleteByID(ctx, b.ID)
	}))

	require.NoError(t, repo.InTx(ctx, func(q user.Queries) error {
		all, err := q.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, a.ID, all[0].ID)
		assert.Equal(t, c.ID, all[1].ID)
		return nil
	}))
}

func TestUsersRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	a := insert(t, repo, newUser("A", "a@example.com"))
	insert(t, repo, newUser("B", "b@example.com"))

	err := repo.InTx(ctx, func(q user.Queries) error {
		changed := a
		changed.Name = "A2"
		changed.CreatedAt = time.Time{}

		got, err := q.Update(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "A2", got.Name)
		assert.Equal(t, a.CreatedAt, got.CreatedAt)

		changed.Email = "b@example.com"
		_, err = q.Update(ctx, changed)
		assert.ErrorIs(t, err, user.ErrEmailTaken)

		_, err = q.Update(ctx, user.User{ID: 99, Email: "z@example.com"})
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		assert.ErrorIs(t, q.DeleteByID(ctx, 99), user.ErrUserNotFound)

		return nil
	})
	require.NoError(t, err)
}

func TestUsersRepo_FindMisses(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	require.NoError(t, repo.InTx(ctx, func(q user.Queries) error {
		_, err := q.FindByID(ctx, 1)
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = q.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		exists, err := q.ExistsByID(ctx, 1)
		require.NoError(t, err)
		assert.False(t, exists)
		return nil
	}))
}

func TestUsersRepo_CanceledContext(t *testing.T) {
	repo := NewUsersRepo()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repo.InTx(ctx, func(q user.Queries) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
}
