package domain

// User roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStudent = "student"
)

type User struct {
	ID                 string `db:"id" json:"id"`
	Username           string `db:"username" json:"username"`
	Name               string `db:"name" json:"name"`
	Email              string `db:"email" json:"email"`
	Hash               string `db:"password_hash" json:"-"`
	Role               string `db:"role" json:"role"`
	RegistrationNumber string `db:"registration_number" json:"registrationNumber,omitempty"`
	Branch             string `db:"branch" json:"branch,omitempty"`
	CreatedAt          string `db:"created_at" json:"createdAt,omitempty"`
}
