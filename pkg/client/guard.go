package client

// Requirement declares what a route demands before it may render.
type Requirement int

const (
	// RequirementPublic routes are always reachable.
	RequirementPublic Requirement = iota
	// RequirementAuth routes need an authenticated session.
	RequirementAuth
	// RequirementAdmin routes need an authenticated admin.
	RequirementAdmin
)

// Action is the admission outcome for a navigation.
type Action int

const (
	ActionAllow Action = iota
	ActionRedirectToLogin
	ActionRedirectToHome
)

// Decision carries the admission outcome. Target preserves the
// originally requested destination on a login redirect so the caller
// can forward there after authentication succeeds.
type Decision struct {
	Action Action
	Target string
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool {
	return d.Action == ActionAllow
}

// RouteGuard gates rendering of a requested route based on current
// session state. It is a stateless predicate over the session store.
type RouteGuard struct {
	sessions *SessionStore
}

// NewRouteGuard builds a guard reading from sessions.
func NewRouteGuard(sessions *SessionStore) *RouteGuard {
	return &RouteGuard{sessions: sessions}
}

// Evaluate decides admission for a navigation to requested. It must
// run before the route renders; the decision is made once per
// navigation.
func (g *RouteGuard) Evaluate(requirement Requirement, requested string) Decision {
	return EvaluateSession(g.sessions.Current(), requirement, requested)
}

// EvaluateSession is the pure admission predicate over a session
// snapshot.
func EvaluateSession(session Session, requirement Requirement, requested string) Decision {
	switch requirement {
	case RequirementPublic:
		return Decision{Action: ActionAllow}
	case RequirementAuth:
		if session.Authenticated() {
			return Decision{Action: ActionAllow}
		}
		return Decision{Action: ActionRedirectToLogin, Target: requested}
	case RequirementAdmin:
		if session.Authenticated() && session.Identity.Role == RoleAdmin {
			return Decision{Action: ActionAllow}
		}
		return Decision{Action: ActionRedirectToHome}
	default:
		return Decision{Action: ActionRedirectToHome}
	}
}
