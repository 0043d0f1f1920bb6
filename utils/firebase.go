// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseMessaging initializes the Firebase app once at process start and
// returns the Messaging client handle. The handle is passed explicitly into
// the push sender rather than held as package state.
func FirebaseMessaging(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	opt := option.WithCredentialsFile(credentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return client, nil
}
