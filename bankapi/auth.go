package bankapi

import (
	"context"
	"net/http"
)

// Register creates the user. The success body is not read, so the returned
// User only echoes the submitted fields.
func (c *Client) Register(ctx context.Context, registration UserRegistration) (*User, error) {
	if err := c.do(ctx, http.MethodPost, PathAuthRegister, registration, nil); err != nil {
		return nil, err
	}
	return &User{Email: registration.Email, FullName: registration.FullName, CPF: registration.CPF}, nil
}

func (c *Client) Login(ctx context.Context, credentials AccountCredentials) (*TokenResponse, error) {
	var token TokenResponse
	if err := c.do(ctx, http.MethodPost, PathAuthLogin, credentials, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
