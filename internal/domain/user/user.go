package user

import "time"

type User struct {
	ID        int64
	Name      string
	Email     string
	Age       *int32 // nil when the caller never supplied one
	CreatedAt time.Time
}

// Request is the create/update payload. It is validated, never stored as-is.
type Request struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"required,email,emaildomain"`
	Age   *int32 `json:"age" validate:"omitnil,min=0"`
}

type Response struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int32    `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewFromRequest(req Request, now time.Time) User {
	return User{
		Name:      req.Name,
		Email:     req.Email,
		Age:       req.Age,
		CreatedAt: now,
	}
}

// Apply overwrites the mutable fields. ID and CreatedAt are left alone.
func (u *User) Apply(req Request) {
	u.Name = req.Name
	u.Email = req.Email
	u.Age = req.Age
}

func (u User) ToResponse() Response {
	return Response{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
	}
}
