package router

import (
	"net/http"
	"strings"

	"store-rating/backend/app/authz"
	"store-rating/backend/app/controllers"
	"store-rating/backend/app/middleware"
)

type Controllers struct {
	HTTP    *controllers.HTTPController
	Auth    *controllers.AuthController
	Stores  *controllers.StoreController
	Ratings *controllers.RatingController
	Users   *controllers.UserController
	Admin   *controllers.AdminController
}

// NewRouter registers every API route under basePath ("" for none).
func NewRouter(c Controllers, mw *middleware.Auth, basePath string) http.Handler {
	mux := http.NewServeMux()
	auth := func(h http.HandlerFunc) http.Handler { return mw.RequireAuth(h) }
	admin := func(a authz.Action, h http.HandlerFunc) http.Handler { return mw.Require(a, h) }

	// public
	mux.HandleFunc("GET /health", c.HTTP.Health)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("GET /stores", c.Stores.List)
	mux.HandleFunc("GET /stores/search", c.Stores.List)
	mux.HandleFunc("GET /ratings/store/{id}", c.Ratings.ListByStore)
	mux.HandleFunc("GET /ratings/store/{id}/average", c.Ratings.StoreAverage)
	mux.HandleFunc("GET /ratings/count", c.Ratings.Count)

	// authenticated; ownership checks happen in the controllers
	mux.Handle("GET /auth/me", auth(c.Auth.Me))
	mux.Handle("GET /stores/owner/{id}", auth(c.Stores.ListByOwner))
	mux.Handle("POST /stores", auth(c.Stores.Create))
	mux.Handle("GET /ratings/user/{id}", auth(c.Ratings.ListByUser))
	mux.Handle("POST /ratings", auth(c.Ratings.Submit))
	mux.Handle("PUT /ratings/{id}", auth(c.Ratings.Update))
	mux.Handle("GET /users/{id}", auth(c.Users.Get))
	mux.Handle("PUT /users/{id}/password", auth(c.Users.ChangePassword))

	// admin only
	mux.Handle("DELETE /stores/{id}", admin(authz.DeleteStore, c.Stores.Delete))
	mux.Handle("GET /users", admin(authz.ListUsers, c.Users.List))
	mux.Handle("POST /users", admin(authz.CreateUser, c.Users.Create))
	mux.Handle("DELETE /users/{id}", admin(authz.DeleteUser, c.Users.Delete))
	mux.Handle("GET /admin/stats", admin(authz.ViewStats, c.Admin.Stats))

	basePath = strings.TrimRight(basePath, "/")
	if basePath == "" {
		return mux
	}
	root := http.NewServeMux()
	root.Handle(basePath+"/", http.StripPrefix(basePath, mux))
	return root
}
