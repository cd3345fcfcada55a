package session

// lifecycle of the process-wide authenticated state
type State int

const (
	StateUninitialized State = iota
	StateRestoring
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// the authenticated identity visible to the application; ID, Email and
// Permissions originate from the access token claims, the display fields
// come from the profile fetch
type User struct {
	ID          int64
	Email       string
	Permissions []string
	FullName    string
	Phone       string
	AvatarURL   string
	Status      string
}

// reports whether the user holds the named permission
func (u *User) Has(perm string) bool {
	if u == nil {
		return false
	}

	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}

	return false
}
