package sender

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseClient wraps the Firebase services the sender needs: Cloud
// Messaging for fan-out and Firestore for the token registry.
type FirebaseClient struct {
	messagingClient *messaging.Client
	firestoreClient *firestore.Client
}

// NewFirebaseClient creates a new Firebase client from service-account JSON.
func NewFirebaseClient(ctx context.Context, projectID, credJSON string) (*FirebaseClient, error) {
	opt := option.WithCredentialsJSON([]byte(credJSON))

	config := &firebase.Config{
		ProjectID: projectID,
	}

	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Messaging client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	return &FirebaseClient{
		messagingClient: messagingClient,
		firestoreClient: firestoreClient,
	}, nil
}

// Messaging returns the Cloud Messaging client.
func (f *FirebaseClient) Messaging() *messaging.Client {
	return f.messagingClient
}

// Firestore returns the Firestore client.
func (f *FirebaseClient) Firestore() *firestore.Client {
	return f.firestoreClient
}

// Close closes the Firestore client.
func (f *FirebaseClient) Close() error {
	if f.firestoreClient != nil {
		return f.firestoreClient.Close()
	}
	return nil
}
