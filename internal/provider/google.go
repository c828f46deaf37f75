package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider exchanges Google OAuth2 callback codes for identity facts
// via the userinfo endpoint.
type GoogleProvider struct {
	config *oauth2.Config

	// UserInfoURL can be overridden for testing.
	UserInfoURL string
}

// NewGoogle configures the Google provider.
func NewGoogle(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		UserInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, classifyExchangeErr(err)
	}

	info, err := fetchUserInfo(ctx, p.config.Client(ctx, token), p.UserInfoURL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(info, &payload); err != nil {
		return nil, domain.WrapError(domain.ErrCodeProviderRejected, "unexpected userinfo payload", err)
	}
	if payload.ID == "" || payload.Email == "" {
		return nil, domain.WrapError(domain.ErrCodeProviderRejected, "userinfo missing required fields", nil)
	}

	return &domain.Identity{
		Subject:  payload.ID,
		Email:    domain.NormalizeEmail(payload.Email),
		FullName: payload.Name,
		Provider: p.Name(),
	}, nil
}

func fetchUserInfo(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to build userinfo request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeProviderUnreachable, "provider unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeProviderUnreachable, "failed reading userinfo response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.WrapError(domain.ErrCodeProviderRejected, "userinfo request rejected",
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}
	return body, nil
}
