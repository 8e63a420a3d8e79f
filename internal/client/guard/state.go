package guard

import "github.com/dmitrijs2005/ecoconnect/internal/client/models"

// State is the session state held by one guard. Exactly one of Pending,
// Authenticated or Unauthenticated at any time.
type State interface {
	isState()
	String() string
}

type Pending struct{}

type Authenticated struct {
	Profile *models.UserProfile
}

type Unauthenticated struct {
	Err error
}

func (Pending) isState()         {}
func (Authenticated) isState()   {}
func (Unauthenticated) isState() {}

func (Pending) String() string         { return "pending" }
func (Authenticated) String() string   { return "authenticated" }
func (Unauthenticated) String() string { return "unauthenticated" }

// Decision is what the view layer does once resolution settles.
type Decision interface {
	isDecision()
}

// Render shows the guarded view.
type Render struct{}

// Redirect navigates to another view instead.
type Redirect struct {
	To string
}

func (Render) isDecision()   {}
func (Redirect) isDecision() {}

// Outcome is the settled result of one mount.
type Outcome struct {
	State    State
	Decision Decision
}

// Profile returns the resolved profile, or nil when unauthenticated.
func (o Outcome) Profile() *models.UserProfile {
	if a, ok := o.State.(Authenticated); ok {
		return a.Profile
	}
	return nil
}
