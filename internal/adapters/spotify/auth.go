package spotify

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	spotifyoauth "golang.org/x/oauth2/spotify"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
	"github.com/ewilliams-labs/musicdna/internal/core/ports"
)

// ScopeUserTopRead grants access to a user's top artists and tracks.
const ScopeUserTopRead = "user-top-read"

// Authenticator runs the authorization-code flow against Spotify accounts.
// Credentials come from the user per request, so a config is built per call.
type Authenticator struct {
	endpoint   oauth2.Endpoint
	httpClient *http.Client
}

var _ ports.Authenticator = (*Authenticator)(nil)

// NewAuthenticator constructs an Authenticator. A zero endpoint targets accounts.spotify.com.
func NewAuthenticator(httpClient *http.Client, endpoint oauth2.Endpoint) *Authenticator {
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = spotifyoauth.Endpoint
	}
	return &Authenticator{endpoint: endpoint, httpClient: httpClient}
}

func (a *Authenticator) config(creds domain.Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       []string{ScopeUserTopRead},
		Endpoint:     a.endpoint,
	}
}

// AuthCodeURL returns the consent page URL carrying state.
func (a *Authenticator) AuthCodeURL(creds domain.Credentials, state string) string {
	return a.config(creds).AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (a *Authenticator) Exchange(ctx context.Context, creds domain.Credentials, code string) (string, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	token, err := a.config(creds).Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("spotify adapter: token exchange returned no access token")
	}
	return token.AccessToken, nil
}
