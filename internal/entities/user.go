package entities

// Admin is the single principal allowed to mutate projects.
type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

const RoleAdmin = "admin"
