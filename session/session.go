package session

import "time"

// State is the authentication state of the process-wide session
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Credential is the bearer token proving the user's identity to the API
type Credential struct {
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Identity is the client-side projection of the logged in user. It is not
// reconciled against the server after login.
type Identity struct {
	Email       string
	DisplayName string
	TaxID       string
}

// Session holds at most one credential and at most one identity
type Session struct {
	Credential *Credential
	User       *Identity
}

// IsAuthenticated is true iff a non-empty token is held
func (s Session) IsAuthenticated() bool {
	return s.Credential != nil && s.Credential.AccessToken != ""
}

// copy returns a Session whose pointers do not alias s
func (s Session) copy() Session {
	var out Session
	if s.Credential != nil {
		c := *s.Credential
		out.Credential = &c
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
