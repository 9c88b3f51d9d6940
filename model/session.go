package model

// Session is the authenticated identity held by the client.
type Session struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	Token        string `json:"-"`
}

// Valid reports whether s carries a usable bearer token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /auth/login
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of PUT /auth/profile. The password fields are
// only sent when a password change is requested.
type ProfileUpdate struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}
