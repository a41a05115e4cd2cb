// internal/domain/models/session.go
package models

// Session is the persisted proof of authentication for one browser.
// A non-empty AuthToken means the user is signed in; expiry is never
// tracked locally and only surfaces as a 401 from the analytics backend.
type Session struct {
	Email     string `json:"email" bson:"email"`
	AuthToken string `json:"authToken" bson:"auth_token"`
	UserID    string `json:"userId" bson:"user_id"`
	FirstName string `json:"firstName" bson:"first_name"`
	LastName  string `json:"lastName" bson:"last_name"`
}

// DisplayName returns "First Last", falling back to the email.
func (s Session) DisplayName() string {
	switch {
	case s.FirstName != "" && s.LastName != "":
		return s.FirstName + " " + s.LastName
	case s.FirstName != "":
		return s.FirstName
	case s.LastName != "":
		return s.LastName
	}
	return s.Email
}
