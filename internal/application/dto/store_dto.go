package dto

import "time"

// CreateStoreRequest entrada para dar de alta una tienda.
type CreateStoreRequest struct {
	Codehex string `json:"codehex" validate:"required,max=32"`
	Name    string `json:"name" validate:"required,max=200"`
	Brand   string `json:"brand"`
	City    string `json:"city"`
	Size    string `json:"size"`
}

// AssignUserRequest asigna (o desasigna con null) un DOT o Aderente a una tienda.
type AssignUserRequest struct {
	UserID *string `json:"user_id"`
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID         string    `json:"id"`
	Codehex    string    `json:"codehex"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	City       string    `json:"city"`
	Size       string    `json:"size"`
	DotUserID  *string   `json:"dot_user_id,omitempty"`
	AderenteID *string   `json:"aderente_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StoreListResponse listado de tiendas.
type StoreListResponse struct {
	Items []StoreResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
