package api

import "github.com/openkcm/storefront-client/internal/serviceerr"

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Result is the response envelope of the storefront backend.
type Result[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Unwrap returns the data of a successful envelope.
// A failed envelope yields a *serviceerr.Error carrying the message.
func (r Result[T]) Unwrap() (T, error) {
	if !r.Success {
		var zero T
		if r.Message == "" {
			return zero, serviceerr.ErrRemoteFailure
		}
		return zero, serviceerr.New(serviceerr.CodeRemoteFailure, r.Message)
	}

	return r.Data, nil
}
