// Package oauth implements the one-shot Google OAuth2 token acquisition flow:
// try the stored refresh token first, fall back to a full authorization-code
// flow with a local redirect listener, then persist the tokens.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"medbot/internal/config"
	mylog "medbot/internal/log"
)

const (
	redirectAddr = "localhost:8080"
	// how long to wait for the provider redirect before giving up
	defaultWaitTimeout = 3 * time.Minute
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

type Acquirer struct {
	cfg         *oauth2.Config
	envFile     string
	waitTimeout time.Duration
	openBrowser func(url string) error
	lg          *mylog.Logger
}

// NewFromEnv builds an acquirer from GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET.
// Missing credentials are a fatal startup precondition for the flow.
func NewFromEnv() (*Acquirer, error) {
	id := os.Getenv("GOOGLE_CLIENT_ID")
	secret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if id == "" || secret == "" {
		return nil, errors.New("oauth: missing GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET")
	}
	return &Acquirer{
		cfg: &oauth2.Config{
			ClientID:     id,
			ClientSecret: secret,
			Endpoint:     googleEndpoint,
			RedirectURL:  "http://" + redirectAddr,
			Scopes:       []string{"openid", "email", "profile"},
		},
		envFile:     config.EnvFile(),
		waitTimeout: defaultWaitTimeout,
		openBrowser: browser.OpenURL,
		lg:          mylog.New(),
	}, nil
}

// Run acquires tokens and persists them. Refresh is attempted when a refresh
// token is present; on absence or failure the full authorization-code flow
// runs. A failed code exchange aborts without writing anything.
func (a *Acquirer) Run(ctx context.Context) error {
	var tok *oauth2.Token
	if refresh := os.Getenv("GOOGLE_OAUTH2_REFRESH_TOKEN"); refresh != "" {
		a.lg.Info("oauth.refresh", "status", "attempting")
		t, err := a.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
		if err != nil {
			a.lg.Warn("oauth.refresh", "status", "failed", "err", err.Error())
		} else {
			tok = t
		}
	}
	if tok == nil {
		t, err := a.authorize(ctx)
		if err != nil {
			return err
		}
		tok = t
	}
	return a.save(tok)
}

// authorize runs the full flow: local one-request listener, browser to the
// consent page, blocking wait for the redirect (bounded by waitTimeout), and
// the code exchange.
func (a *Acquirer) authorize(ctx context.Context) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	ln, err := net.Listen("tcp", redirectAddr)
	if err != nil {
		return nil, fmt.Errorf("oauth: redirect listener: %w", err)
	}
	srv := &http.Server{Handler: redirectHandler(codeCh)}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	url := a.cfg.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	a.lg.Info("oauth.consent", "url", url)
	if err := a.openBrowser(url); err != nil {
		a.lg.Warn("oauth.browser", "err", err.Error())
	}

	var code string
	select {
	case code = <-codeCh:
	case <-time.After(a.waitTimeout):
		return nil, errors.New("oauth: timed out waiting for redirect")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	a.lg.Info("oauth.redirect", "code", code)

	tok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		a.lg.Error("oauth.exchange", "err", err.Error())
		return nil, fmt.Errorf("oauth: code exchange: %w", err)
	}
	return tok, nil
}

// redirectHandler serves the provider redirect: 200 with a success page when
// a code is present, 400 otherwise. The code is delivered at most once.
func redirectHandler(codeCh chan<- string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		w.Header().Set("Content-Type", "text/html")
		if code == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("<h1>Error: no code received.</h1>"))
			return
		}
		_, _ = w.Write([]byte("<h1>Authorization successful!</h1>You can close this window."))
		select {
		case codeCh <- code:
		default:
		}
	})
}

// save merges the obtained tokens into the environment file, keeping
// unrelated keys. An absent refresh token leaves the stored one untouched.
func (a *Acquirer) save(tok *oauth2.Token) error {
	vals, err := godotenv.Read(a.envFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		vals = map[string]string{}
	}
	if tok.AccessToken != "" {
		vals["GOOGLE_OAUTH2_ACCESS_TOKEN"] = tok.AccessToken
	}
	if id, ok := tok.Extra("id_token").(string); ok && id != "" {
		vals["GOOGLE_ID_TOKEN"] = id
	}
	if tok.RefreshToken != "" {
		vals["GOOGLE_OAUTH2_REFRESH_TOKEN"] = tok.RefreshToken
	}
	if err := godotenv.Write(vals, a.envFile); err != nil {
		return err
	}
	a.lg.Info("oauth.saved", "file", a.envFile, "access_token", tok.AccessToken)
	return nil
}
