package handler

import (
	"github.com/99minutos/user-directory/internal/core/domain"
)

// envelope is the JSON body of every response, successful or not.
type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       any                `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
	Count      *int               `json:"count,omitempty"`
}

func ok(message string, data any) envelope {
	return envelope{Success: true, Message: message, Data: data}
}

func failure(message string) envelope {
	return envelope{Success: false, Message: message}
}
