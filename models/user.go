package models

import "fmt"

// User is a notification recipient. RegistrationTokens holds the FCM device
// tokens of every installed client signed in as this user; the token
// reconciler is the only writer of that list.
type User struct {
	ID                 string   `bson:"id" json:"id"`
	Name               string   `bson:"name" json:"name"`
	RegistrationTokens []string `bson:"registrationTokens" json:"registrationTokens"`
}

// Validate checks the fields this service depends on.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user has no id: %w", ErrMalformedDocument)
	}
	return nil
}
