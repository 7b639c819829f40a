package faculty

// State is the faculty session state.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	switch s {
	case LoggedIn:
		return "LoggedIn"
	default:
		return "LoggedOut"
	}
}

// Session is the per-browser faculty session. The zero value is logged out.
type Session struct {
	Authenticated bool
	FacultyID     string
}

// State returns the current state of the session.
func (s *Session) State() State {
	if s != nil && s.Authenticated {
		return LoggedIn
	}
	return LoggedOut
}

// Gate guards the faculty view.
type Gate struct {
	verifier Verifier
}

func NewGate(v Verifier) *Gate {
	return &Gate{verifier: v}
}

// Authenticate marks the session as logged in when the credentials match.
// A failed attempt leaves the session as it was.
func (g *Gate) Authenticate(s *Session, id, password string) bool {
	if g.verifier == nil || !g.verifier.Verify(id, password) {
		return false
	}
	s.Authenticated = true
	s.FacultyID = id
	return true
}

// Logout always ends the session.
func (g *Gate) Logout(s *Session) {
	s.Authenticated = false
	s.FacultyID = ""
}
