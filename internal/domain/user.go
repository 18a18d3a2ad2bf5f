package domain

// RoleCustomer is the role requested for self-service registrations.
const RoleCustomer = "CLIENTE"

// User is the snapshot returned by GET /auth/me. It is replaced wholesale on
// every refetch and never patched locally.
type User struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Email     string  `json:"email" yaml:"email"`
	Role      string  `json:"role" yaml:"role"`
	CompanyID *string `json:"companyId" yaml:"companyId,omitempty"`
}
