package controllers

import (
	"net/http"

	"store-rating/backend/app/apperr"
	"store-rating/backend/app/dto"
	jwtutil "store-rating/backend/app/jwt"
	"store-rating/backend/app/middleware"
	"store-rating/backend/app/models"
	"store-rating/backend/app/services"
)

type AuthController struct {
	Users  *services.UserService
	Signer *jwtutil.Signer
}

func NewAuthController(users *services.UserService, signer *jwtutil.Signer) *AuthController {
	return &AuthController{Users: users, Signer: signer}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	u, err := c.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	c.respondWithToken(w, r, http.StatusOK, u)
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	u, err := c.Users.Register(r.Context(), services.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Address: req.Address,
	})
	if apperr.Is(err, apperr.KindConflict) {
		// clients of /auth/register expect 400 for a taken e-mail
		err = apperr.Validation("User already exists", apperr.FieldError{Field: "email", Message: "Email is already registered"})
	}
	if err != nil {
		WriteError(w, r, err)
		return
	}
	c.respondWithToken(w, r, http.StatusCreated, u)
}

// Me returns the account behind the bearer token.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFrom(r.Context())
	u, err := c.Users.Get(r.Context(), id.ID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(u))
}

func (c *AuthController) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	token, err := c.Signer.Sign(jwtutil.Identity{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		WriteError(w, r, apperr.Internal(err, "token error"))
		return
	}
	writeJSON(w, status, dto.AuthResponse{Token: token, User: dto.NewUserResponse(u)})
}
