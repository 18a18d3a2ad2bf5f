package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents a login or registration response
type AuthResponse struct {
	Token string `json:"token"`
}

// Register creates a customer account. The returned token is persisted
// through the TokenStore before Register returns.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	req := RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleCustomer,
	}
	return c.authenticate(ctx, call{
		endpoint: EndpointRegister,
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     req,
	})
}

// Login authenticates and persists the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, call{
		endpoint: EndpointLogin,
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     LoginRequest{Email: email, Password: password},
	})
}

func (c *Client) authenticate(ctx context.Context, rc call) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, rc, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.Wrap(errors.ErrCodeAPIDecode, c.translator.Decode(),
			fmt.Errorf("%s response carries no token", rc.path)).
			WithRequest(rc.path, http.StatusOK, "")
	}

	if c.tokens != nil {
		if err := c.tokens.SetToken(ctx, resp.Token); err != nil {
			return nil, err
		}
	}

	return &resp, nil
}

// Me returns the user the stored token belongs to. Without a token it
// fails with AUTH-001 and sends nothing.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var resp envelope[domain.User]
	err := c.do(ctx, call{
		endpoint: EndpointMe,
		method:   http.MethodGet,
		path:     "/auth/me",
		auth:     true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
