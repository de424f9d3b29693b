package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Options selects how the admin SDK authenticates. A credentials file wins;
// without one the SDK uses Application Default Credentials and needs ProjectID.
type Options struct {
	CredentialsPath string
	ProjectID       string
}

// NewAuthClient initializes a Firebase app and returns its auth client
func NewAuthClient(ctx context.Context, opts Options) (*auth.Client, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.CredentialsPath != "":
		if _, err := os.Stat(opts.CredentialsPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("firebase credentials file not found at %s", opts.CredentialsPath)
		}
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsPath))
	case opts.ProjectID == "":
		return nil, fmt.Errorf("firebase needs a credentials file or a project id")
	}

	var appCfg *firebase.Config
	if opts.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}
	return client, nil
}
