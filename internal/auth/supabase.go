package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SupabaseProvider talks to the GoTrue REST API of a Supabase project.
type SupabaseProvider struct {
	baseURL string
	anonKey string
	client  *http.Client
}

var _ Provider = (*SupabaseProvider)(nil)

func NewSupabaseProvider(projectURL, anonKey string) *SupabaseProvider {
	return &SupabaseProvider{
		baseURL: strings.TrimRight(projectURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// supabaseAuthResponse covers both shapes of /signup: a full session, or a bare user
// when email confirmation is enabled.
type supabaseAuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        *supabaseUser `json:"user"`
	ID          string        `json:"id"`
	Email       string        `json:"email"`
}

type supabaseError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e supabaseError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

func (p *SupabaseProvider) do(ctx context.Context, path, bearer string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func decodeSession(resp *http.Response) (*Session, error) {
	var out supabaseAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	user := supabaseUser{ID: out.ID, Email: out.Email}
	if out.User != nil {
		user = *out.User
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: response without a user id", ErrUnavailable)
	}

	return &Session{
		AccessToken: out.AccessToken,
		TokenType:   out.TokenType,
		ExpiresIn:   out.ExpiresIn,
		User:        Identity{ID: id, Email: user.Email},
	}, nil
}

func readError(resp *http.Response) supabaseError {
	var e supabaseError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &e); err != nil {
		e.Message = string(raw)
	}
	return e
}

func (p *SupabaseProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.do(ctx, "/auth/v1/signup", "", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return decodeSession(resp)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: signup returned %d", ErrUnavailable, resp.StatusCode)
	default:
		e := readError(resp)
		msg := e.text()
		if strings.Contains(strings.ToLower(msg), "already") || e.ErrorCode == "user_already_exists" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %s", ErrRejected, msg)
	}
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.do(ctx, "/auth/v1/token?grant_type=password", "", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeSession(resp)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: token returned %d", ErrUnavailable, resp.StatusCode)
	default:
		log.Printf("SupabaseProvider.SignIn: rejected: %s", readError(resp).text())
		return nil, ErrInvalidCredentials
	}
}

// SignOut ends the refresh session upstream. A token GoTrue no longer accepts is already signed out.
func (p *SupabaseProvider) SignOut(ctx context.Context, accessToken string) error {
	resp, err := p.do(ctx, "/auth/v1/logout", accessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: logout returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
