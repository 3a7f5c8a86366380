package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/session"
	"github.com/shashiranjanraj/grocery/pkg/view"
)

const weakPasswordMessage = "Password must be at least 8 characters long and include uppercase, lowercase, numbers, and special characters."

// AuthController serves registration, the two login entry points and
// logout.
type AuthController struct {
	web
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService, render view.Renderer, maxBody int64) *AuthController {
	return &AuthController{web: web{render: render, maxBody: maxBody}, auth: auth}
}

func (c *AuthController) ShowRegister(w http.ResponseWriter, r *http.Request) {
	c.page(w, r, http.StatusOK, "register", map[string]any{
		"roles": []string{models.RoleAdmin, models.RoleUser},
	})
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	const back = "/auth/register"
	if err := c.parseForm(w, r); err != nil {
		c.redirect(w, r, back, session.FlashDanger, "Could not read the submitted form.")
		return
	}

	user, err := c.auth.Register(r.Context(), services.RegisterInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
	})
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrMissingField):
		c.redirect(w, r, back, session.FlashDanger, "All fields are required.")
	case errors.Is(err, services.ErrInvalidRole):
		c.redirect(w, r, back, session.FlashDanger, "Invalid role selected.")
	case errors.Is(err, services.ErrWeakPassword):
		c.redirect(w, r, back, session.FlashDanger, weakPasswordMessage)
	case errors.Is(err, services.ErrDuplicateEmail):
		c.redirect(w, r, back, session.FlashDanger, "An account with this email already exists.")
	case errors.As(err, &verr):
		c.redirect(w, r, back, session.FlashDanger, firstMessage(err, "Please check the form and try again."))
	case err != nil:
		c.fail(w, r, err, back, "Error creating account. Please try again.")
	case user.IsAdmin():
		c.redirect(w, r, "/auth/admin-login", session.FlashSuccess, "Admin account created successfully! You can now log in.")
	default:
		c.redirect(w, r, loginPath, session.FlashSuccess, "User account created successfully! You can now log in.")
	}
}

func (c *AuthController) ShowAdminLogin(w http.ResponseWriter, r *http.Request) {
	c.page(w, r, http.StatusOK, "admin_login", nil)
}

func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	const back = "/auth/admin-login"
	if err := c.parseForm(w, r); err != nil {
		c.redirect(w, r, back, session.FlashDanger, "Could not read the submitted form.")
		return
	}

	user, err := c.auth.LoginAdmin(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.redirect(w, r, back, session.FlashDanger, "Invalid email or password.")
	case err != nil:
		c.fail(w, r, err, back, "Error logging in. Please try again.")
	default:
		session.FromCtx(r).Login(user.ID)
		c.redirect(w, r, "/admin-dashboard", session.FlashSuccess, "Admin login successful!")
	}
}

func (c *AuthController) ShowUserLogin(w http.ResponseWriter, r *http.Request) {
	c.page(w, r, http.StatusOK, "user_login", map[string]string{
		"next": r.URL.Query().Get("next"),
	})
}

func (c *AuthController) UserLogin(w http.ResponseWriter, r *http.Request) {
	const back = loginPath
	if err := c.parseForm(w, r); err != nil {
		c.redirect(w, r, back, session.FlashDanger, "Could not read the submitted form.")
		return
	}

	user, err := c.auth.LoginUser(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, services.ErrUseAdminLogin):
		c.redirect(w, r, "/auth/admin-login", session.FlashWarning, "Admins should use the admin login page.")
	case errors.Is(err, services.ErrInvalidCredentials):
		c.redirect(w, r, back, session.FlashDanger, "Invalid email or password.")
	case err != nil:
		c.fail(w, r, err, back, "Error logging in. Please try again.")
	default:
		session.FromCtx(r).Login(user.ID)
		next := r.URL.Query().Get("next")
		if next == "" {
			next = r.PostFormValue("next")
		}
		c.redirect(w, r, localPath(next, "/user-dashboard"), session.FlashSuccess, "User logged in successfully!")
	}
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session.FromCtx(r).Logout()
	c.redirect(w, r, "/home", session.FlashSuccess, "Logged out successfully!")
}
