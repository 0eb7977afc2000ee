// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

// Package auth implements the client side of the MES identity lifecycle:
// the typed wrappers over the /auth endpoints, the durable session vault,
// and the observable session store that gates the dashboard shell.
//
// # Architecture
//
//   - Service: Thin, typed endpoint wrappers (no state).
//   - Vault: The single durable session record surviving restarts.
//   - Store: The in-memory state container views subscribe to.
//
// The remote MES API owns all server-side identity state; everything here
// is a cache with explicit refresh points.
package auth

import "time"

// User is the identity summary established by login/signup.
//
// # Rules
//   - Replaced wholesale on login, signup, and profile reconciliation.
//   - Owned exclusively by the session store.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	FactoryName string    `json:"factoryName,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// # Request Payloads

// SignupInput holds the data required to enroll a new factory account.
type SignupInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FactoryName string `json:"factoryName"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	SendMail    bool   `json:"sendMail,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type validateResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

// # Response Shapes

// LoginResponse is the answer to POST /auth/login.
type LoginResponse struct {
	AccessToken string                 `json:"accessToken"`
	User        *User                  `json:"user"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// SignupResponse is the answer to POST /auth/signup.
//
// Note that it carries only an email confirmation — no full profile. The
// store synthesizes a provisional [User] until the background profile
// fetch reconciles it.
type SignupResponse struct {
	AccessToken string `json:"accessToken"`
	Email       string `json:"email"`
	Message     string `json:"message"`
}

// MessageResponse is the generic acknowledgement shape.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerificationStatusResponse reports the resend-verification cooldown.
type VerificationStatusResponse struct {
	CanResend         bool `json:"canResend"`
	CooldownRemaining int  `json:"cooldownRemaining,omitempty"`
}
