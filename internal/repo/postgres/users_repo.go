package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/userservice/internal/domain/user"
	"github.com/geocoder89/userservice/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, age, created_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (repo *UsersRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *UsersRepo) Ping(ctx context.Context) error {
	return repo.pool.Ping(ctx)
}

// InTx begins a transaction, hands fn the statements bound to it and commits
// only when fn succeeds. The deferred rollback is a no-op after a commit.
func (repo *UsersRepo) InTx(ctx context.Context, fn func(q user.Queries) error) error {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(&usersTx{tx: tx, observe: repo.observe})
	if err != nil {
		return err
	}

	err = repo.observe("users.commit", func() error {
		return tx.Commit(ctx)
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

type usersTx struct {
	tx      pgx.Tx
	observe func(op string, fn func() error) error
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.CreatedAt)

	return u, err
}

func (t *usersTx) FindByID(ctx context.Context, id int64) (u user.User, err error) {
	err = t.observe("users.find_by_id", func() error {
		u, err = scanUser(t.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

func (t *usersTx) FindByEmail(ctx context.Context, email string) (u user.User, err error) {
	err = t.observe("users.find_by_email", func() error {
		u, err = scanUser(t.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// FindAll has no ORDER BY: rows come back in whatever order Postgres scans them.
func (t *usersTx) FindAll(ctx context.Context) ([]user.User, error) {
	output := make([]user.User, 0)

	err := t.observe("users.find_all", func() error {
		rows, err := t.tx.Query(ctx, `SELECT `+userColumns+` FROM users`)
		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}

			output = append(output, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (t *usersTx) ExistsByID(ctx context.Context, id int64) (exists bool, err error) {
	err = t.observe("users.exists_by_id", func() error {
		return t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	})

	return exists, err
}

func (t *usersTx) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	err = t.observe("users.exists_by_email", func() error {
		return t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	})

	return exists, err
}

func (t *usersTx) ExistsByEmailAndIDNot(ctx context.Context, email string, id int64) (exists bool, err error) {
	err = t.observe("users.exists_by_email_other", func() error {
		return t.tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
			email, id,
		).Scan(&exists)
	})

	return exists, err
}

func (t *usersTx) Insert(ctx context.Context, in user.User) (u user.User, err error) {
	err = t.observe("users.insert", func() error {
		u, err = scanUser(t.tx.QueryRow(ctx,
			`INSERT INTO users (name, email, age, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+userColumns,
			in.Name, in.Email, in.Age, in.CreatedAt,
		))
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

// Update never touches id or created_at.
func (t *usersTx) Update(ctx context.Context, in user.User) (u user.User, err error) {
	err = t.observe("users.update", func() error {
		u, err = scanUser(t.tx.QueryRow(ctx,
			`UPDATE users
			SET name = $2,
			    email = $3,
			    age = $4
			WHERE id = $1
			RETURNING `+userColumns,
			in.ID, in.Name, in.Email, in.Age,
		))
		return err
	})

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return user.User{}, user.ErrUserNotFound
		case IsUniqueViolation(err):
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

func (t *usersTx) DeleteByID(ctx context.Context, id int64) error {
	var affected int64

	err := t.observe("users.delete", func() error {
		tag, err := t.tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
