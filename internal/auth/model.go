package auth

// Staff roles. ADMIN owns the back-office (menu, categories, imports);
// STAFF works the order board.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// User is a back-office account.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}
