package earthengine

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuth scopes requested for every call.
const (
	ScopeEarthEngine   = "https://www.googleapis.com/auth/earthengine"
	ScopeCloudPlatform = "https://www.googleapis.com/auth/cloud-platform"
)

// NewHTTPClient returns an authenticated HTTP client and the project id
// embedded in the credentials, if any.
//
// When credentialsFile is empty, Application Default Credentials are used
// (GOOGLE_APPLICATION_CREDENTIALS, gcloud user credentials, or the metadata
// server). Otherwise the file must hold a service account or authorized
// user JSON key.
func NewHTTPClient(ctx context.Context, credentialsFile string) (*http.Client, string, error) {
	creds, err := findCredentials(ctx, credentialsFile)
	if err != nil {
		return nil, "", err
	}
	return oauth2.NewClient(ctx, creds.TokenSource), creds.ProjectID, nil
}

func findCredentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credentialsFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, ScopeEarthEngine, ScopeCloudPlatform)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoCredentials, err)
		}
		return creds, nil
	}

	data, err := os.ReadFile(credentialsFile) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", credentialsFile, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, ScopeEarthEngine, ScopeCloudPlatform) //nolint:staticcheck // key type is not known in advance
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCredentials, err)
	}
	return creds, nil
}
