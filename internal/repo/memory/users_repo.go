package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/userservice/internal/domain/user"
)

// UsersRepo keeps users in process. Transactions are serialized by a single
// mutex and work on a copy of the table that only replaces the live one on
// commit. Ids come from a counter that is never rewound, so ids are not
// reused even after a rollback or delete.
type UsersRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]user.User
	order  []int64 // insertion order, the store-native order for FindAll
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[int64]user.User),
	}
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *UsersRepo) InTx(ctx context.Context, fn func(q user.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &usersTx{
		nextID: &r.nextID,
		items:  make(map[int64]user.User, len(r.items)),
		order:  append([]int64(nil), r.order...),
	}

	for id, u := range r.items {
		tx.items[id] = u
	}

	if err := fn(tx); err != nil {
		return err
	}

	r.items = tx.items
	r.order = tx.order

	return nil
}

type usersTx struct {
	nextID *int64
	items  map[int64]user.User
	order  []int64
}

func (t *usersTx) FindByID(_ context.Context, id int64) (user.User, error) {
	u, ok := t.items[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}

	return u, nil
}

func (t *usersTx) FindByEmail(_ context.Context, email string) (user.User, error) {
	for _, id := range t.order {
		if u := t.items[id]; u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrUserNotFound
}

func (t *usersTx) FindAll(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(t.order))

	for _, id := range t.order {
		out = append(out, t.items[id])
	}

	return out, nil
}

func (t *usersTx) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := t.items[id]
	return ok, nil
}

func (t *usersTx) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := t.FindByEmail(ctx, email)
	return err == nil, nil
}

func (t *usersTx) ExistsByEmailAndIDNot(_ context.Context, email string, id int64) (bool, error) {
	for otherID, u := range t.items {
		if otherID != id && u.Email == email {
			return true, nil
		}
	}

	return false, nil
}

// Insert enforces the unique email constraint the same way the database does.
func (t *usersTx) Insert(ctx context.Context, u user.User) (user.User, error) {
	taken, _ := t.ExistsByEmail(ctx, u.Email)
	if taken {
		return user.User{}, user.ErrEmailTaken
	}

	*t.nextID++
	u.ID = *t.nextID

	t.items[u.ID] = u
	t.order = append(t.order, u.ID)

	return u, nil
}

func (t *usersTx) Update(ctx context.Context, u user.User) (user.User, error) {
	current, ok := t.items[u.ID]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}

	taken, _ := t.ExistsByEmailAndIDNot(ctx, u.Email, u.ID)
	if taken {
		return user.User{}, user.ErrEmailTaken
	}

	current.Name = u.Name
	current.Email = u.Email
	current.Age = u.Age

	t.items[u.ID] = current

	return current, nil
}

func (t *usersTx) DeleteByID(_ context.Context, id int64) error {
	if _, ok := t.items[id]; !ok {
		return user.ErrUserNotFound
	}

	delete(t.items, id)

	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}

	return nil
}
