package controllers

import (
	"net/http"

	"store-rating/backend/app/authz"
	"store-rating/backend/app/dto"
	"store-rating/backend/app/middleware"
	"store-rating/backend/app/services"
)

type RatingController struct {
	Ratings *services.RatingService
	Guard   authz.Guard
}

func NewRatingController(ratings *services.RatingService, guard authz.Guard) *RatingController {
	return &RatingController{Ratings: ratings, Guard: guard}
}

func (c *RatingController) ListByStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ratings, err := c.Ratings.ListByStore(r.Context(), storeID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewStoreRatingList(ratings))
}

func (c *RatingController) StoreAverage(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	agg, err := c.Ratings.StoreAggregate(r.Context(), storeID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AggregateResponse{StoreID: storeID, Average: agg.Average, Count: agg.Count})
}

func (c *RatingController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	req := authz.Request{Action: authz.ViewUserRatings, SubjectID: userID}
	if err := c.Guard.Authorize(middleware.IdentityFrom(r.Context()), req); err != nil {
		WriteError(w, r, err)
		return
	}
	ratings, err := c.Ratings.ListByUser(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserRatingList(ratings))
}

func (c *RatingController) Count(w http.ResponseWriter, r *http.Request) {
	n, err := c.Ratings.Count(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CountResponse{Count: n})
}

// Submit records the caller's rating. The rater is always the token's user.
func (c *RatingController) Submit(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFrom(r.Context())
	if err := c.Guard.Authorize(id, authz.Request{Action: authz.SubmitRating}); err != nil {
		WriteError(w, r, err)
		return
	}
	var req dto.SubmitRatingRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	rt, err := c.Ratings.Submit(r.Context(), id.ID, services.SubmitRatingInput{StoreID: req.StoreID, Rating: req.Rating})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewRatingResponse(rt))
}

// Update overwrites an existing rating; only its author may do so.
func (c *RatingController) Update(w http.ResponseWriter, r *http.Request) {
	ratingID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req dto.UpdateRatingRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	existing, err := c.Ratings.Get(r.Context(), ratingID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	id := middleware.IdentityFrom(r.Context())
	if err := c.Guard.Authorize(id, authz.Request{Action: authz.UpdateRating, SubjectID: existing.UserID}); err != nil {
		WriteError(w, r, err)
		return
	}
	rt, err := c.Ratings.Submit(r.Context(), id.ID, services.SubmitRatingInput{StoreID: existing.StoreID, Rating: req.Rating})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewRatingResponse(rt))
}
