package handlers

import (
	"net/http"

	"github.com/rohits-web03/notely/internal/api/middleware"
	"github.com/rohits-web03/notely/internal/api/services"
	"github.com/rohits-web03/notely/internal/utils"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /create-account
// CreateAccount godoc
// @Summary Register a new account
// @Description Creates a user and returns it with an access token. An already registered email is answered with 200 and error=true.
// @Tags Account
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "New account"
// @Success 200 {object} utils.Payload "Registration Successful"
// @Failure 400 {object} utils.Payload "Missing field"
// @Router /create-account [post]
func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	session, err := h.accounts.Register(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		User:        session.User,
		AccessToken: session.AccessToken,
		Message:     "Registration Successful",
	})
}

// POST /login
// Login godoc
// @Summary Log in with email and password
// @Tags Account
// @Accept json
// @Produce json
// @Param body body loginInput true "Credentials"
// @Success 200 {object} utils.Payload "Login Successful"
// @Failure 400 {object} utils.Payload "User not found or Invalid Credentials"
// @Router /login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := decodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	session, err := h.accounts.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		User:        session.User,
		AccessToken: session.AccessToken,
		Message:     "Login Successful",
	})
}

// GET /get-user
// GetUser godoc
// @Summary Current user's profile
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload "Missing token or user no longer exists"
// @Failure 403 {object} utils.Payload "Invalid token"
// @Router /get-user [get]
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.accounts.CurrentUser(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{User: user})
}

// GET /auth/google/login
// GoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Account
// @Success 307
// @Router /auth/google/login [get]
func (h *Handlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState(map[string]string{"flow": "login"})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	setStateCookie(w, state, h.secureState)

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /auth/google/callback
// GoogleCallback godoc
// @Summary Finish Google sign-in
// @Description Exchanges the authorization code, finds or creates the user and returns an access token.
// @Tags Account
// @Produce json
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} utils.Payload "Login Successful"
// @Failure 400 {object} utils.Payload "Invalid OAuth state"
// @Failure 401 {object} utils.Payload "Google sign-in failed"
// @Router /auth/google/callback [get]
func (h *Handlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.FormValue("state")
	if !checkStateCookie(w, r, state, h.secureState) {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	if _, err := DecodeState(state); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	profile, err := h.google.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.Warn(r.Context(), "google sign-in failed", "error", err)
		utils.ErrorResponse(w, http.StatusUnauthorized, "Google sign-in failed")
		return
	}

	session, err := h.accounts.SignInWithProvider(r.Context(), profile)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		User:        session.User,
		AccessToken: session.AccessToken,
		Message:     "Login Successful",
	})
}
