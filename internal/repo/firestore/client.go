package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// NewClient dials Firestore once at startup. An empty credentialsFile
// means application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial firestore: %w", err)
	}
	return client, nil
}
