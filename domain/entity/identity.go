package entity

// Identity is an authenticated principal managed by the external
// identity provider. The ID is immutable for the lifetime of the
// identity; deletion only happens as a provisioning compensation or an
// explicit offboarding action.
type Identity struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func NewIdentity(id, email, displayName string) *Identity {
	return &Identity{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
	}
}
