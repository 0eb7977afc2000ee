// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package web

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/forgeline/console/internal/auth"
	"github.com/forgeline/console/internal/platform/apperr"
	requestutil "github.com/forgeline/console/internal/platform/request"
	"github.com/forgeline/console/internal/platform/validate"
	"github.com/forgeline/console/internal/users"
)

// # Definitions & Constructors

// PageHandler renders the console pages and processes their form posts.
//
// # Scope
//
// Everything a full-page navigation can reach: the public auth flows and
// the guarded dashboard shell. The notification panel's JSON endpoints
// live in [PanelHandler].
type PageHandler struct {
	sessions     *auth.Store
	authService  *auth.Service
	usersService *users.Service
	templates    *templateSet
	log          *slog.Logger
}

// NewPageHandler constructs a [PageHandler] with its dependencies.
func NewPageHandler(sessions *auth.Store, authService *auth.Service, usersService *users.Service, templates *templateSet, log *slog.Logger) *PageHandler {
	return &PageHandler{
		sessions:     sessions,
		authService:  authService,
		usersService: usersService,
		templates:    templates,
		log:          log,
	}
}

// page builds the base view model with the live session snapshot.
func (handler *PageHandler) page(title string) pageData {
	return pageData{
		Title:   title,
		Session: handler.sessions.State(),
		Fields:  map[string]string{},
		Form:    map[string]string{},
	}
}

// fieldMap flattens validation details into a field→message map for the
// templates. Non-validation errors contribute nothing.
func fieldMap(err error) map[string]string {
	fields := map[string]string{}
	if appError := apperr.As(err); appError != nil {
		for _, detail := range appError.Details {
			fields[detail.Field] = detail.Message
		}
	}
	return fields
}

// # Public Pages

/*
Landing handles GET /.

Authenticated operators never see the marketing page — they are sent
straight to the dashboard.
*/
func (handler *PageHandler) Landing(writer http.ResponseWriter, request *http.Request) {
	if handler.sessions.State().IsAuthenticated {
		http.Redirect(writer, request, "/dashboard", http.StatusFound)
		return
	}
	handler.templates.render(writer, http.StatusOK, "landing", handler.page("Factory operations console"))
}

// LoginForm handles GET /login.
func (handler *PageHandler) LoginForm(writer http.ResponseWriter, request *http.Request) {
	data := handler.page("Sign in")
	data.Form["from"] = request.URL.Query().Get("from")
	handler.templates.render(writer, http.StatusOK, "login", data)
}

/*
Login handles POST /login.

Validation runs before any network call. On success the operator lands on
the guarded page they originally asked for (the "from" parameter), or the
dashboard.
*/
func (handler *PageHandler) Login(writer http.ResponseWriter, request *http.Request) {
	email := request.FormValue("email")
	password := request.FormValue("password")

	data := handler.page("Sign in")
	data.Form["email"] = email
	data.Form["from"] = request.FormValue("from")

	validator := &validate.Validator{}
	validator.Required("email", email).
		Email("email", email).
		Required("password", password)

	if err := validator.Err(); err != nil {
		data.Fields = fieldMap(err)
		handler.templates.render(writer, http.StatusUnprocessableEntity, "login", data)
		return
	}

	if err := handler.sessions.Login(request.Context(), email, password); err != nil {
		data.Error = handler.sessions.State().Error
		handler.templates.render(writer, http.StatusUnauthorized, "login", data)
		return
	}

	http.Redirect(writer, request, safeReturnPath(request.FormValue("from")), http.StatusFound)
}

// SignupForm handles GET /signup.
func (handler *PageHandler) SignupForm(writer http.ResponseWriter, request *http.Request) {
	handler.templates.render(writer, http.StatusOK, "signup", handler.page("Create account"))
}

/*
Signup handles POST /signup.

The full rule set runs client-side-of-the-wire: person-name charsets,
factory name length, email shape, password strength. A payload failing any
rule is never sent upstream.
*/
func (handler *PageHandler) Signup(writer http.ResponseWriter, request *http.Request) {
	input := auth.SignupInput{
		FirstName:   request.FormValue("firstName"),
		LastName:    request.FormValue("lastName"),
		FactoryName: request.FormValue("factoryName"),
		Phone:       request.FormValue("phone"),
		Email:       request.FormValue("email"),
		Password:    request.FormValue("password"),
	}

	data := handler.page("Create account")
	data.Form["firstName"] = input.FirstName
	data.Form["lastName"] = input.LastName
	data.Form["factoryName"] = input.FactoryName
	data.Form["phone"] = input.Phone
	data.Form["email"] = input.Email

	validator := &validate.Validator{}
	validator.Required("firstName", input.FirstName).
		PersonName("firstName", input.FirstName).
		Required("lastName", input.LastName).
		PersonName("lastName", input.LastName).
		Required("factoryName", input.FactoryName).
		FactoryName("factoryName", input.FactoryName).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		Password("password", input.Password)

	if err := validator.Err(); err != nil {
		data.Fields = fieldMap(err)
		handler.templates.render(writer, http.StatusUnprocessableEntity, "signup", data)
		return
	}

	if err := handler.sessions.Signup(request.Context(), input); err != nil {
		data.Error = handler.sessions.State().Error
		handler.templates.render(writer, http.StatusUnprocessableEntity, "signup", data)
		return
	}

	http.Redirect(writer, request, "/dashboard", http.StatusFound)
}

// # Password Recovery Flow

// ForgotPasswordForm handles GET /forgot-password.
// The "step" query parameter selects which stage of the flow renders.
func (handler *PageHandler) ForgotPasswordForm(writer http.ResponseWriter, request *http.Request) {
	data := handler.page("Reset password")
	data.Data = request.URL.Query().Get("step")
	data.Form["email"] = request.URL.Query().Get("email")
	handler.templates.render(writer, http.StatusOK, "forgot_password", data)
}

/*
ForgotPassword handles POST /forgot-password, dispatching on the hidden
"step" field.

Steps:
  - request: mail a 6-digit reset code.
  - code:    validate the code before showing the password form.
  - reset:   set the new password and bounce to /login.

Each step re-validates its own inputs; the code travels forward through
hidden fields so the final reset call carries email+code+password together.
*/
func (handler *PageHandler) ForgotPassword(writer http.ResponseWriter, request *http.Request) {
	step := request.FormValue("step")
	email := validate.NormalizeEmail(request.FormValue("email"))

	data := handler.page("Reset password")
	data.Data = step
	data.Form["email"] = email

	switch step {
	case "request":
		validator := &validate.Validator{}
		validator.Required("email", email).Email("email", email)
		if err := validator.Err(); err != nil {
			data.Data = ""
			data.Fields = fieldMap(err)
			handler.templates.render(writer, http.StatusUnprocessableEntity, "forgot_password", data)
			return
		}

		if _, err := handler.authService.ForgotPassword(request.Context(), email); err != nil {
			data.Data = ""
			data.Error = apperr.APIMessage(err, "Could not send the reset code")
			handler.templates.render(writer, http.StatusBadGateway, "forgot_password", data)
			return
		}

		http.Redirect(writer, request,
			"/forgot-password?step=code&email="+url.QueryEscape(email), http.StatusFound)

	case "code":
		code := request.FormValue("code")

		validator := &validate.Validator{}
		validator.Required("code", code).ResetCode("code", code)
		if err := validator.Err(); err != nil {
			data.Fields = fieldMap(err)
			handler.templates.render(writer, http.StatusUnprocessableEntity, "forgot_password", data)
			return
		}

		if _, err := handler.authService.ValidateResetCode(request.Context(), email, code); err != nil {
			data.Error = apperr.APIMessage(err, "Invalid or expired reset code")
			handler.templates.render(writer, http.StatusUnprocessableEntity, "forgot_password", data)
			return
		}

		data.Data = "reset"
		data.Form["code"] = code
		handler.templates.render(writer, http.StatusOK, "forgot_password", data)

	case "reset":
		code := request.FormValue("code")
		password := request.FormValue("password")

		data.Form["code"] = code

		validator := &validate.Validator{}
		validator.Required("code", code).
			ResetCode("code", code).
			Required("password", password).
			Password("password", password)
		if err := validator.Err(); err != nil {
			data.Fields = fieldMap(err)
			handler.templates.render(writer, http.StatusUnprocessableEntity, "forgot_password", data)
			return
		}

		if _, err := handler.authService.ResetPassword(request.Context(), email, code, password); err != nil {
			data.Error = apperr.APIMessage(err, "Could not reset the password")
			handler.templates.render(writer, http.StatusUnprocessableEntity, "forgot_password", data)
			return
		}

		http.Redirect(writer, request, "/login", http.StatusFound)

	default:
		http.Redirect(writer, request, "/forgot-password", http.StatusFound)
	}
}

// # Email Verification

/*
VerifyEmail handles GET /verify-email/{token}.

The token comes from the mailed link; the page shows the outcome and, on
failure, offers the resend form.
*/
func (handler *PageHandler) VerifyEmail(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	data := handler.page("Email verification")

	result, err := handler.authService.VerifyEmail(request.Context(), token)
	if err != nil {
		data.Error = apperr.APIMessage(err, "Verification failed — the link may have expired")
		handler.templates.render(writer, http.StatusUnprocessableEntity, "verify_email", data)
		return
	}

	data.Data = result.Message
	if data.Data == "" {
		data.Data = "Your email has been verified. You can sign in now."
	}
	handler.templates.render(writer, http.StatusOK, "verify_email", data)
}

/*
ResendVerification handles POST /resend-verification.

The upstream enforces a resend cooldown; its message passes through either
way so the operator sees how long to wait.
*/
func (handler *PageHandler) ResendVerification(writer http.ResponseWriter, request *http.Request) {
	email := validate.NormalizeEmail(request.FormValue("email"))

	data := handler.page("Email verification")
	data.Form["email"] = email

	validator := &validate.Validator{}
	validator.Required("email", email).Email("email", email)
	if err := validator.Err(); err != nil {
		data.Error = "Enter a valid email address"
		handler.templates.render(writer, http.StatusUnprocessableEntity, "verify_email", data)
		return
	}

	result, err := handler.authService.ResendVerification(request.Context(), email)
	if err != nil {
		data.Error = apperr.APIMessage(err, "Could not resend the verification email")
		handler.templates.render(writer, http.StatusUnprocessableEntity, "verify_email", data)
		return
	}

	data.Data = result.Message
	if data.Data == "" {
		data.Data = "Verification email sent."
	}
	handler.templates.render(writer, http.StatusOK, "verify_email", data)
}
