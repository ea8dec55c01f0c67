package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Identity is what the identity provider vouches for after sign-in.
type Identity struct {
	ID    string
	Name  string
	Email string
}

type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// GoogleProvider runs the OAuth2 authorization-code flow against Google and
// reads the signed-in account from the userinfo API.
type GoogleProvider struct {
	config  *oauth2.Config
	apiOpts []option.ClientOption
}

type ProviderOption func(*GoogleProvider)

// WithOAuthEndpoint replaces Google's authorization and token endpoints.
func WithOAuthEndpoint(endpoint oauth2.Endpoint) ProviderOption {
	return func(p *GoogleProvider) { p.config.Endpoint = endpoint }
}

// WithAPIOptions adds client options for the userinfo service.
func WithAPIOptions(opts ...option.ClientOption) ProviderOption {
	return func(p *GoogleProvider) { p.apiOpts = append(p.apiOpts, opts...) }
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string, opts ...ProviderOption) *GoogleProvider {
	p := &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"openid",
				goauth2.UserinfoEmailScope,
				goauth2.UserinfoProfileScope,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(p.config.Client(ctx, tok))}, p.apiOpts...)
	svc, err := goauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Id == "" {
		return nil, errors.New("userinfo response has no account id")
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	return &Identity{ID: info.Id, Name: name, Email: info.Email}, nil
}
