package user

import "time"

const (
	RoleCustomer = "customer"
	RoleHost     = "host"
	RoleShowroom = "showroom"
	RoleAdmin    = "admin"
)

type User struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Role          string    `db:"role" json:"role"`
	IsKYCApproved bool      `db:"is_kyc_approved" json:"is_kyc_approved"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CanOwnCars reports whether u may list cars.
func (u *User) CanOwnCars() bool {
	return u.Role == RoleHost || u.Role == RoleShowroom
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=customer host showroom"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type KYCRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         User   `json:"user"`
}
