package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Version is reported by the index route.
const Version = "1.0.0"

type indexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET /.
//
// @Summary  API welcome and entry points
// @Tags     index
// @Produce  json
// @Success  200  {object}  indexResponse
// @Router   / [get]
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, indexResponse{
		Message: "Welcome to the User Directory API",
		Version: Version,
		Endpoints: map[string]string{
			"users": "/users",
			"roles": "/roles",
		},
	})
}
