package httptransport

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AccountPayload is the wire form of an account. The password hash never
// leaves the module.
type AccountPayload struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	RegistrationKey string `json:"registration_key"`
}

type RegisterResponse struct {
	Success bool           `json:"success"`
	Account AccountPayload `json:"account"`
	Token   string         `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool           `json:"success"`
	Account AccountPayload `json:"account"`
	Token   string         `json:"token"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}

type ProfileResponse struct {
	Success bool           `json:"success"`
	Account AccountPayload `json:"account"`
}

type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// RoleStatsPayload is the admin dashboard breakdown.
type RoleStatsPayload struct {
	Total    int `json:"total"`
	Admins   int `json:"admins"`
	Teachers int `json:"teachers"`
	Students int `json:"students"`
}

type AccountsResponse struct {
	Success  bool             `json:"success"`
	Accounts []AccountPayload `json:"accounts"`
	Stats    RoleStatsPayload `json:"stats"`
}

// UpdateAccountRequest is the admin mutation. Omitted fields keep their
// current values.
type UpdateAccountRequest struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type DeleteAccountResponse struct {
	Success bool `json:"success"`
}
