// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package auth

import (
	"context"
	"net/url"

	"github.com/forgeline/console/internal/apiclient"
)

const authBase = "/auth"

// Service is the typed wrapper over the MES /auth endpoints.
//
// # Scope
//
// Strictly transport: it shapes payloads and decodes answers. Session
// lifecycle decisions (what to persist, when to clear) belong to [Store].
type Service struct {
	api *apiclient.Client
}

// NewService constructs an auth [Service] over the shared API client.
func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

/*
Signup registers a new factory account.

POST /auth/signup
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*SignupResponse, error) {
	response := &SignupResponse{}
	if err := service.api.Post(ctx, authBase+"/signup", input, response); err != nil {
		return nil, err
	}
	return response, nil
}

/*
Login authenticates with email and password.

POST /auth/login
*/
func (service *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	response := &LoginResponse{}
	body := loginRequest{Email: email, Password: password}
	if err := service.api.Post(ctx, authBase+"/login", body, response); err != nil {
		return nil, err
	}
	return response, nil
}

/*
Logout invalidates the current session server-side.

DELETE /auth/logout

The caller decides whether a failure here matters — the store deliberately
proceeds with local teardown either way.
*/
func (service *Service) Logout(ctx context.Context) error {
	return service.api.Delete(ctx, authBase+"/logout", nil)
}

/*
VerifyEmail confirms an email address using the mailed token.

GET /auth/verify/:token
*/
func (service *Service) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	response := &MessageResponse{}
	if err := service.api.Get(ctx, authBase+"/verify/"+url.PathEscape(token), response); err != nil {
		return nil, err
	}
	return response, nil
}

// # Password Recovery

/*
ForgotPassword requests a reset code to be mailed.

POST /auth/password/reset-link
*/
func (service *Service) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	response := &MessageResponse{}
	body := forgotPasswordRequest{Email: email}
	if err := service.api.Post(ctx, authBase+"/password/reset-link", body, response); err != nil {
		return nil, err
	}
	return response, nil
}

/*
ValidateResetCode checks a 6-digit reset code before the password step.

POST /auth/validate-reset-code
*/
func (service *Service) ValidateResetCode(ctx context.Context, email, code string) (*MessageResponse, error) {
	response := &MessageResponse{}
	body := validateResetCodeRequest{Email: email, Code: code}
	if err := service.api.Post(ctx, authBase+"/validate-reset-code", body, response); err != nil {
		return nil, err
	}
	return response, nil
}

/*
ResetPassword completes the forgot-password flow.

POST /auth/password/reset-password
*/
func (service *Service) ResetPassword(ctx context.Context, email, code, newPassword string) (*MessageResponse, error) {
	response := &MessageResponse{}
	body := resetPasswordRequest{Email: email, Code: code, NewPassword: newPassword}
	if err := service.api.Post(ctx, authBase+"/password/reset-password", body, response); err != nil {
		return nil, err
	}
	return response, nil
}

// # Email Verification

/*
ResendVerification asks for a fresh verification mail.

POST /auth/resend-verification
*/
func (service *Service) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	response := &MessageResponse{}
	body := resendVerificationRequest{Email: email}
	if err := service.api.Post(ctx, authBase+"/resend-verification", body, response); err != nil {
		return nil, err
	}
	return response, nil
}

/*
VerificationStatus reports whether a resend is currently allowed.

GET /auth/resend-verification/status/:email
*/
func (service *Service) VerificationStatus(ctx context.Context, email string) (*VerificationStatusResponse, error) {
	response := &VerificationStatusResponse{}
	if err := service.api.Get(ctx, authBase+"/resend-verification/status/"+url.PathEscape(email), response); err != nil {
		return nil, err
	}
	return response, nil
}
