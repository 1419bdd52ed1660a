package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/geocoder89/userservice/internal/domain/user"

// Service enforces the user invariants (existence, email uniqueness) and
// runs every operation inside a single store transaction.
type Service struct {
	store  Store
	log    *slog.Logger
	now    func() time.Time
	tracer trace.Tracer
}

func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		store:  store,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		tracer: otel.Tracer(tracerName),
	}
}

// WithClock swaps the creation clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, req Request) (resp Response, err error) {
	ctx, span := s.tracer.Start(ctx, "user.Create")
	defer func() { endSpan(span, err) }()

	if fields := Validate(req); len(fields) > 0 {
		return Response{}, &ValidationError{Fields: fields}
	}

	var created User

	err = s.store.InTx(ctx, func(q Queries) error {
		taken, err := q.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}

		if taken {
			return &EmailConflictError{Email: req.Email}
		}

		created, err = q.Insert(ctx, NewFromRequest(req, s.now()))
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		return nil
	})

	if err != nil {
		return Response{}, asConflict(err, req.Email)
	}

	span.SetAttributes(attribute.Int64("user.id", created.ID))
	s.log.InfoContext(ctx, "user created", "user_id", created.ID)

	return created.ToResponse(), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (resp Response, err error) {
	ctx, span := s.tracer.Start(ctx, "user.GetByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer func() { endSpan(span, err) }()

	var found User

	err = s.store.InTx(ctx, func(q Queries) error {
		u, err := q.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return NotFoundByID(id)
			}
			return fmt.Errorf("find user %d: %w", id, err)
		}

		found = u
		return nil
	})

	if err != nil {
		return Response{}, err
	}

	return found.ToResponse(), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (resp Response, err error) {
	ctx, span := s.tracer.Start(ctx, "user.GetByEmail")
	defer func() { endSpan(span, err) }()

	var found User

	err = s.store.InTx(ctx, func(q Queries) error {
		u, err := q.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return NotFoundByEmail(email)
			}
			return fmt.Errorf("find user by email: %w", err)
		}

		found = u
		return nil
	})

	if err != nil {
		return Response{}, err
	}

	return found.ToResponse(), nil
}

// GetAll returns every user in store order. The result is never nil.
func (s *Service) GetAll(ctx context.Context) (out []Response, err error) {
	ctx, span := s.tracer.Start(ctx, "user.GetAll")
	defer func() { endSpan(span, err) }()

	var users []User

	err = s.store.InTx(ctx, func(q Queries) error {
		all, err := q.FindAll(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		users = all
		return nil
	})

	if err != nil {
		return nil, err
	}

	out = make([]Response, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}

	return out, nil
}

// Update checks existence first, then the payload, then uniqueness against
// every row except the one being updated.
func (s *Service) Update(ctx context.Context, id int64, req Request) (resp Response, err error) {
	ctx, span := s.tracer.Start(ctx, "user.Update", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer func() { endSpan(span, err) }()

	var updated User

	err = s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return NotFoundByID(id)
			}
			return fmt.Errorf("find user %d: %w", id, err)
		}

		if fields := Validate(req); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}

		taken, err := q.ExistsByEmailAndIDNot(ctx, req.Email, id)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}

		if taken {
			return &EmailConflictError{Email: req.Email}
		}

		existing.Apply(req)

		updated, err = q.Update(ctx, existing)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return NotFoundByID(id)
			}
			return fmt.Errorf("update user %d: %w", id, err)
		}

		return nil
	})

	if err != nil {
		return Response{}, asConflict(err, req.Email)
	}

	s.log.InfoContext(ctx, "user updated", "user_id", updated.ID)

	return updated.ToResponse(), nil
}

func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "user.Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer func() { endSpan(span, err) }()

	err = s.store.InTx(ctx, func(q Queries) error {
		exists, err := q.ExistsByID(ctx, id)
		if err != nil {
			return fmt.Errorf("check user %d: %w", id, err)
		}

		if !exists {
			return NotFoundByID(id)
		}

		err = q.DeleteByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return NotFoundByID(id)
			}
			return fmt.Errorf("delete user %d: %w", id, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user deleted", "user_id", id)

	return nil
}

// asConflict re-signals a unique constraint rejection from the store (the
// lost side of a concurrent create/update race) as an EmailConflictError.
func asConflict(err error, email string) error {
	var conflict *EmailConflictError
	if errors.As(err, &conflict) {
		return conflict
	}

	if errors.Is(err, ErrEmailTaken) {
		return &EmailConflictError{Email: email}
	}

	return err
}

// IsExpected reports whether err is one of the typed outcomes callers are
// meant to see (not found, conflict, validation).
func IsExpected(err error) bool {
	var (
		notFound   *NotFoundError
		conflict   *EmailConflictError
		validation *ValidationError
	)

	return errors.As(err, &notFound) || errors.As(err, &conflict) || errors.As(err, &validation)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !IsExpected(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected error")
	}
	span.End()
}
