package domain

// RoleAdmin is the role value allowed to manage the synthetic-data
// generator and register additional users.
const RoleAdmin = 5

// User is an authenticated principal. The password hash never leaves
// the service layer.
type User struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         int    `json:"role"`
	PasswordHash string `json:"-"`
}

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     *int   `json:"role"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed access token and the authenticated
// user's public profile.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	User        User   `json:"user"`
}
