package dto

import "store-rating/backend/app/apperr"

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

// AggregateResponse is a store's rating summary; Average is null when the
// store has no ratings.
type AggregateResponse struct {
	StoreID uint     `json:"store_id"`
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

type StatsResponse struct {
	Users   int64 `json:"users"`
	Stores  int64 `json:"stores"`
	Ratings int64 `json:"ratings"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
