package user

import "context"

// Store is the persistence port. InTx runs fn inside one transaction: it
// commits when fn returns nil and rolls back on every other exit path.
type Store interface {
	InTx(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
}

// Queries are the statements available inside a transaction.
//
// FindByID, FindByEmail, Update and DeleteByID return ErrUserNotFound when no
// row matches. Insert and Update return ErrEmailTaken when the unique email
// constraint rejects the write.
type Queries interface {
	FindByID(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailAndIDNot(ctx context.Context, email string, id int64) (bool, error)
	Insert(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	DeleteByID(ctx context.Context, id int64) error
}
