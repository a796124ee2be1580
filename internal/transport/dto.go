package transport

import (
	"time"

	"github.com/ndanilov/inventory_api/internal/models"
)

// Envelope is the uniform response wrapper: every endpoint, success or
// failure, answers with this shape.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data"`
	Errors  []string `json:"errors"`
}

func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func Fail(message string, errs ...string) Envelope {
	if len(errs) == 0 {
		errs = []string{message}
	}
	return Envelope{Success: false, Message: message, Errors: errs}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token      string      `json:"token"`
	Expiration time.Time   `json:"expiration"`
	User       models.User `json:"user"`
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type ProductPage struct {
	Items       []models.Product `json:"items"`
	PageNumber  int              `json:"pageNumber"`
	PageSize    int              `json:"pageSize"`
	TotalCount  int64            `json:"totalCount"`
	TotalPages  int              `json:"totalPages"`
	HasPrevious bool             `json:"hasPrevious"`
	HasNext     bool             `json:"hasNext"`
}

type DeleteResponse struct {
	DeletedID int `json:"deletedId"`
}

type SearchResult struct {
	Items      []models.Product `json:"items"`
	TotalCount int64            `json:"totalCount"`
}
