package controllers

import (
	"net/http"

	"store-rating/backend/app/authz"
	"store-rating/backend/app/dto"
	"store-rating/backend/app/middleware"
	"store-rating/backend/app/services"
)

type StoreController struct {
	Stores *services.StoreService
	Guard  authz.Guard
}

func NewStoreController(stores *services.StoreService, guard authz.Guard) *StoreController {
	return &StoreController{Stores: stores, Guard: guard}
}

// List serves both /stores and /stores/search; q filters by name or address.
func (c *StoreController) List(w http.ResponseWriter, r *http.Request) {
	stores, err := c.Stores.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewStoreList(stores))
}

func (c *StoreController) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	req := authz.Request{Action: authz.ViewOwnerStores, SubjectID: ownerID}
	if err := c.Guard.Authorize(middleware.IdentityFrom(r.Context()), req); err != nil {
		WriteError(w, r, err)
		return
	}
	stores, err := c.Stores.ListByOwner(r.Context(), ownerID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewStoreList(stores))
}

// Create adds a store owned by the caller. Only admins may name another owner.
func (c *StoreController) Create(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFrom(r.Context())
	if err := c.Guard.Authorize(id, authz.Request{Action: authz.CreateStore}); err != nil {
		WriteError(w, r, err)
		return
	}
	var req dto.CreateStoreRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	owner := id.ID
	if req.OwnerID != 0 && req.OwnerID != id.ID {
		if err := c.Guard.Authorize(id, authz.Request{Action: authz.AssignStoreOwner}); err != nil {
			WriteError(w, r, err)
			return
		}
		owner = req.OwnerID
	}
	st, err := c.Stores.Create(r.Context(), services.CreateStoreInput{
		Name: req.Name, Email: req.Email, Address: req.Address, OwnerID: owner,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewStoreResponse(st))
}

func (c *StoreController) Delete(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := c.Stores.Delete(r.Context(), storeID); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
