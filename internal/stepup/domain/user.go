package domain

import "time"

// User is the service's projection of a platform user: just enough to route
// verification codes and apply the admin-only policy. The platform upserts
// rows through the admin API.
type User struct {
	ID       string // platform user ID (ULID)
	Username string
	Email    string
	Phone    *string
	IsAdmin  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
