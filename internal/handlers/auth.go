package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/models"
	"github.com/polarisml/console-gateway/internal/session"
)

// Auth serves the JSON endpoints behind the sign-in/sign-up forms.
type Auth struct {
	Sessions *session.Manager
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SignIn handles POST /api/auth/signin. Bad credentials come back as a
// value ({success:false, message}), never as an unhandled failure.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: "email and password are required"})
		return
	}

	result := h.Sessions.Login(w, r, req.Email, req.Password)
	if !result.Success {
		respondJSON(w, http.StatusUnauthorized, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// SignUp handles POST /api/auth/signup. The profile name is composed here,
// from first/last name fields, before the session operation runs.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName))
	}
	if name == "" || req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, session.Result{Success: false, Message: "name, email, and password are required"})
		return
	}

	result := h.Sessions.Register(w, r, apiclient.SignUpInput{
		Name:     name,
		Email:    req.Email,
		Password: req.Password,
	})
	if !result.Success {
		respondJSON(w, http.StatusUnauthorized, result)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// SignOut handles POST /api/auth/signout. Idempotent.
func (h *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Sessions.Logout(w, r))
}

// SessionInfo handles GET /api/auth/session: the shell's bootstrap call.
func (h *Auth) SessionInfo(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Resolve(w, r)
	respondJSON(w, http.StatusOK, struct {
		User *models.User `json:"user"`
	}{User: sess.User})
}
