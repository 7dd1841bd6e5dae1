// Package catalog holds the session-scoped catalogue state: the logged-in
// user, the active filter, the selected object, and the expert dashboard.
package catalog

import (
	"errors"
	"sync"
)

// Role is the access level of an account.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleExpert Role = "expert"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when an operation needs an expert session.
	ErrForbidden = errors.New("expert access required")
)

// Account is a known login.
type Account struct {
	Username string
	Password string
	Role     Role
}

// User is the identity of the active session.
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// DefaultAccounts returns the built-in survey expert login.
func DefaultAccounts() []Account {
	return []Account{{Username: "expert", Password: "expert123", Role: RoleExpert}}
}

// State is the catalogue session. It is safe for concurrent use.
type State struct {
	mu       sync.RWMutex
	accounts map[string]Account
	user     *User
	filter   Filter
	selected string
}

// NewState creates a logged-out session with the default filter.
func NewState(accounts []Account) *State {
	byName := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byName[a.Username] = a
	}
	return &State{
		accounts: byName,
		filter:   DefaultFilter(),
	}
}

// Login starts a session for the account. A failed login leaves any
// existing session untouched.
func (s *State) Login(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok || acct.Password != password {
		return ErrInvalidCredentials
	}
	s.user = &User{Username: acct.Username, Role: acct.Role}
	return nil
}

// Logout ends the session.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// User returns the logged-in user, if any.
func (s *State) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsExpert reports whether an expert is logged in.
func (s *State) IsExpert() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isExpertLocked()
}

func (s *State) isExpertLocked() bool {
	return s.user != nil && s.user.Role == RoleExpert
}

// SetFilters merges the patch into the active filter. An invalid result is
// rejected and the active filter is kept.
func (s *State) SetFilters(p FilterPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := p.merge(s.filter)
	if err := next.Validate(); err != nil {
		return err
	}
	s.filter = next
	return nil
}

// ResetFilters restores DefaultFilter.
func (s *State) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = DefaultFilter()
}

// Filters returns a copy of the active filter.
func (s *State) Filters() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.clone()
}

// SelectObject marks an object as selected. An empty id clears the selection.
func (s *State) SelectObject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the selected object ID, if any.
func (s *State) Selected() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}
