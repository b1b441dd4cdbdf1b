package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/lindenpm/linden/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrUnverifiedGoogleEmail = errors.New("google account email is not verified")

// GoogleVerifier exchanges an authorization code for the Google account's
// identity. Split behind an interface so handlers can be tested without
// Google.
type GoogleVerifier interface {
	Verify(ctx context.Context, code string) (email, name string, err error)
}

type googleVerifier struct {
	conf *oauth2.Config
}

func NewGoogleVerifier(cfg *config.OAuthConfig) GoogleVerifier {
	return &googleVerifier{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *googleVerifier) Verify(ctx context.Context, code string) (string, string, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("exchanging code: %w", err)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(g.conf.TokenSource(ctx, tok)))
	if err != nil {
		return "", "", fmt.Errorf("creating oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return "", "", fmt.Errorf("fetching userinfo: %w", err)
	}

	if info.VerifiedEmail == nil || !*info.VerifiedEmail {
		return "", "", ErrUnverifiedGoogleEmail
	}

	return info.Email, info.Name, nil
}
