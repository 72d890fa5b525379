package session

import "github.com/dmitrijs2005/elite/internal/client/models"

type Status string

const (
	StatusUninitialized   Status = "UNINITIALIZED"
	StatusLoading         Status = "LOADING"
	StatusAuthenticated   Status = "AUTHENTICATED"
	StatusUnauthenticated Status = "UNAUTHENTICATED"
)

// State is an immutable snapshot of the session.
type State struct {
	Status       Status
	AccessToken  string
	RefreshToken string
	User         *models.UserProfile
}

func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		if u.SelectedProfile != nil {
			p := *u.SelectedProfile
			u.SelectedProfile = &p
		}
		s.User = &u
	}
	return s
}

func authenticated(access, refresh string, user models.UserProfile) State {
	return State{Status: StatusAuthenticated, AccessToken: access, RefreshToken: refresh, User: &user}
}

func unauthenticated() State {
	return State{Status: StatusUnauthenticated}
}
