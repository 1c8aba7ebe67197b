package controllers

import (
	"net/http"

	"store-rating/backend/app/authz"
	"store-rating/backend/app/dto"
	"store-rating/backend/app/middleware"
	"store-rating/backend/app/models"
	"store-rating/backend/app/repo"
	"store-rating/backend/app/services"
)

type UserController struct {
	Users *services.UserService
	Guard authz.Guard
}

func NewUserController(users *services.UserService, guard authz.Guard) *UserController {
	return &UserController{Users: users, Guard: guard}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := c.Users.List(r.Context(), repo.UserFilter{
		Name:    q.Get("name"),
		Email:   q.Get("email"),
		Address: q.Get("address"),
		Role:    models.Role(q.Get("role")),
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserList(users))
}

func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	u, err := c.Users.CreateUser(r.Context(), services.CreateUserInput{
		RegisterInput: services.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password, Address: req.Address},
		Role:          models.Role(req.Role),
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewUserResponse(u))
}

func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.authorizeSubject(w, r, authz.ViewUser)
	if !ok {
		return
	}
	u, err := c.Users.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(u))
}

func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.authorizeSubject(w, r, authz.ChangePassword)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := c.Users.ChangePassword(r.Context(), userID, req.Password); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := c.Users.Delete(r.Context(), userID); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorizeSubject parses {id} and checks the caller may act on that user.
func (c *UserController) authorizeSubject(w http.ResponseWriter, r *http.Request, action authz.Action) (uint, bool) {
	userID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return 0, false
	}
	req := authz.Request{Action: action, SubjectID: userID}
	if err := c.Guard.Authorize(middleware.IdentityFrom(r.Context()), req); err != nil {
		WriteError(w, r, err)
		return 0, false
	}
	return userID, true
}
