package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHubProvider exchanges GitHub OAuth2 callback codes for identity facts.
// GitHub may omit the email on the user endpoint, so the emails endpoint is
// consulted as a fallback.
type GitHubProvider struct {
	config *oauth2.Config

	// UserURL and EmailsURL can be overridden for testing.
	UserURL   string
	EmailsURL string
}

// NewGitHub configures the GitHub provider.
func NewGitHub(clientID, clientSecret, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		UserURL:   githubUserURL,
		EmailsURL: githubEmailsURL,
	}
}

func (p *GitHubProvider) Name() string {
	return "github"
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, classifyExchangeErr(err)
	}

	client := p.config.Client(ctx, token)

	info, err := fetchUserInfo(ctx, client, p.UserURL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(info, &payload); err != nil {
		return nil, domain.WrapError(domain.ErrCodeProviderRejected, "unexpected user payload", err)
	}
	if payload.ID == 0 {
		return nil, domain.WrapError(domain.ErrCodeProviderRejected, "user payload missing id", nil)
	}

	email := payload.Email
	if email == "" {
		email, err = p.primaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, domain.WrapError(domain.ErrCodeProviderRejected, "github account has no verified email", nil)
	}

	fullName := payload.Name
	if fullName == "" {
		fullName = payload.Login
	}

	return &domain.Identity{
		Subject:  strconv.FormatInt(payload.ID, 10),
		Email:    domain.NormalizeEmail(email),
		FullName: fullName,
		Provider: p.Name(),
	}, nil
}

// primaryEmail asks the emails endpoint for the primary verified address.
func (p *GitHubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	body, err := fetchUserInfo(ctx, client, p.EmailsURL)
	if err != nil {
		return "", err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(body, &emails); err != nil {
		return "", domain.WrapError(domain.ErrCodeProviderRejected, "unexpected emails payload", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}
