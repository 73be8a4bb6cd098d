package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTokenTimeout = 30 * time.Second
	maxErrorBodyLen     = 2048
)

var (
	ErrMissingTokenURL  = errors.New("token url is required")
	ErrMissingGrantType = errors.New("grant_type is required")
	ErrEmptyAccessToken = errors.New("empty access_token in response")
)

type GrantType string

const (
	GrantTypeClientCredentials GrantType = "client_credentials"
	GrantTypeAuthorizationCode GrantType = "authorization_code"
	GrantTypeRefreshToken      GrantType = "refresh_token"
)

// TokenRequestDTO describes one call to a token endpoint. Only the fields
// of the chosen grant are read.
type TokenRequestDTO struct {
	TokenURL  string
	GrantType GrantType

	ClientID     string
	ClientSecret string
	// UseBasicAuth moves the client credentials from the form into an
	// Authorization header.
	UseBasicAuth bool
	Scopes       []string

	Code         string
	RedirectURI  string
	CodeVerifier string

	RefreshToken string
}

// Token is a granted credential. ExpiresAt is zero when the provider did
// not say.
type Token struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresAt    time.Time
}

//go:generate mockery --name=TokenClient --dir=. --output=./mocks --filename=token_client_mock.go --case=underscore --with-expecter
type TokenClient interface {
	GetToken(ctx context.Context, dto TokenRequestDTO) (*Token, error)
}

type tokenClient struct {
	http *http.Client
}

func NewTokenClient(opts ...TokenClientOption) TokenClient {
	c := &tokenClient{http: &http.Client{Timeout: defaultTokenTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *tokenClient) GetToken(ctx context.Context, dto TokenRequestDTO) (*Token, error) {
	endpoint := strings.TrimSpace(dto.TokenURL)
	switch {
	case endpoint == "":
		return nil, ErrMissingTokenURL
	case dto.GrantType == "":
		return nil, ErrMissingGrantType
	}
	form, err := dto.form()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if dto.UseBasicAuth && dto.ClientID != "" {
		req.SetBasicAuth(dto.ClientID, dto.ClientSecret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response body: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, clip(raw))
	}
	return parseToken(raw, time.Now())
}

func parseToken(raw []byte, now time.Time) (*Token, error) {
	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		Scope        string `json:"scope"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}
	token := &Token{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken, Scope: body.Scope}
	if body.ExpiresIn > 0 {
		token.ExpiresAt = now.Add(time.Duration(body.ExpiresIn) * time.Second)
	}
	return token, nil
}

func clip(raw []byte) string {
	if len(raw) <= maxErrorBodyLen {
		return string(raw)
	}
	return string(raw[:maxErrorBodyLen]) + "...(truncated)"
}

func (dto TokenRequestDTO) form() (url.Values, error) {
	v := url.Values{"grant_type": {string(dto.GrantType)}}
	if len(dto.Scopes) > 0 {
		v.Set("scope", strings.Join(dto.Scopes, " "))
	}
	// public PKCE clients still identify themselves in the body
	if dto.ClientID != "" && !dto.UseBasicAuth {
		v.Set("client_id", dto.ClientID)
		if dto.ClientSecret != "" {
			v.Set("client_secret", dto.ClientSecret)
		}
	}

	required := func(name, value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s flow requires %s", dto.GrantType, name)
		}
		v.Set(name, value)
		return nil
	}

	switch dto.GrantType {
	case GrantTypeClientCredentials:
		return v, nil
	case GrantTypeAuthorizationCode:
		if err := required("code", dto.Code); err != nil {
			return nil, err
		}
		if err := required("redirect_uri", dto.RedirectURI); err != nil {
			return nil, err
		}
		if dto.CodeVerifier != "" {
			v.Set("code_verifier", dto.CodeVerifier)
		}
		return v, nil
	case GrantTypeRefreshToken:
		if err := required("refresh_token", dto.RefreshToken); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported grant_type: %s", dto.GrantType)
}
