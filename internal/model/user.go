package model

// Roles
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

// User account, table users
type User struct {
	ID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName     string `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'OPERATOR'"   json:"role"`
	BaseModel
}

// TableName users
func (User) TableName() string { return "users" }

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}
