package controllers

import (
	"net/http"

	"store-rating/backend/app/dto"
	"store-rating/backend/app/services"
)

type AdminController struct {
	Users   *services.UserService
	Stores  *services.StoreService
	Ratings *services.RatingService
}

func NewAdminController(users *services.UserService, stores *services.StoreService, ratings *services.RatingService) *AdminController {
	return &AdminController{Users: users, Stores: stores, Ratings: ratings}
}

// Stats returns row counts for the admin dashboard.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	var (
		resp dto.StatsResponse
		err  error
	)
	ctx := r.Context()
	if resp.Users, err = c.Users.Count(ctx); err != nil {
		WriteError(w, r, err)
		return
	}
	if resp.Stores, err = c.Stores.Count(ctx); err != nil {
		WriteError(w, r, err)
		return
	}
	if resp.Ratings, err = c.Ratings.Count(ctx); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
