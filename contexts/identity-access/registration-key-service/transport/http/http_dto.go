package http

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type KeyPayload struct {
	ID        string  `json:"id"`
	Key       string  `json:"key"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
	ExpiresAt *string `json:"expires_at"`
	MaxUses   int     `json:"max_uses"`
	Uses      int     `json:"uses"`
	Note      string  `json:"note"`
}

type GenerateKeyRequest struct {
	Role       string `json:"role"`
	ExpiryDays *int   `json:"expiry_days,omitempty"`
	MaxUses    *int   `json:"max_uses,omitempty"`
	Note       string `json:"note,omitempty"`
}

type GenerateKeyResponse struct {
	Success bool       `json:"success"`
	Key     KeyPayload `json:"key"`
}

type ActiveKeysResponse struct {
	Success bool         `json:"success"`
	Keys    []KeyPayload `json:"keys"`
}

type RevokeKeyResponse struct {
	Success bool `json:"success"`
}

// CheckKeyResponse is the public live-validation payload used by the
// registration form. uses_left is null for unlimited keys.
type CheckKeyResponse struct {
	Valid     bool    `json:"valid"`
	Message   string  `json:"message"`
	Role      string  `json:"role,omitempty"`
	ExpiresAt *string `json:"expires_at,omitempty"`
	UsesLeft  *int    `json:"uses_left,omitempty"`
}
