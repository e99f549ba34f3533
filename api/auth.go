package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aiktc/portal/internal/session"
	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	store         session.IdentityStore
	profileRepo   repository.ProfileRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(store session.IdentityStore, pr repository.ProfileRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{store: store, profileRepo: pr, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	StudentID  string `json:"student_id,omitempty"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := validateSignup(ctx, body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req signupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ident, err := h.store.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// The profile insert is a second step after identity creation. When it
	// fails the identity is kept and the error surfaced; the next sign-in
	// reconciles via upsert.
	profile := &models.Profile{
		ID:         ident.ID,
		FullName:   req.FullName,
		Role:       models.Role(req.Role),
		Department: models.Department(req.Department),
		StudentID:  req.StudentID,
	}
	if err := h.profileRepo.UpsertProfile(ctx, profile); err != nil {
		logger.Error("profile creation failed after identity creation", "identity_id", ident.ID, "err", err)
		http.Error(w, "account created but profile setup failed; sign in to retry", http.StatusInternalServerError)
		return
	}

	h.issueToken(w, ident.ID, req.Role)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	ident, err := h.store.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// role claim comes from the profile; a missing profile still signs in
	// (setup incomplete) with no role claim
	role := ""
	if p, err := h.profileRepo.GetProfile(ctx, ident.ID); err == nil && p != nil {
		role = string(p.Role)
	}

	h.issueToken(w, ident.ID, role)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SignOut(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, subject, role string) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		http.Error(w, "error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}
