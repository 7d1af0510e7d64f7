package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// operation names what a handler was doing so failures can be reported in
// its terms.
type operation struct {
	// failure is the message of a 500 response.
	failure string
	// notFound is the message of a 404 response.
	notFound string
}

var (
	opCreateRole = operation{failure: "Error creating role"}
	opListRoles  = operation{failure: "Error retrieving roles"}
	opGetRole    = operation{failure: "Error retrieving role", notFound: "Role not found"}
	opUpdateRole = operation{failure: "Error updating role", notFound: "Role not found"}
	opDeleteRole = operation{failure: "Error deleting role", notFound: "Role not found"}

	opCreateUser   = operation{failure: "Error creating user"}
	opListUsers    = operation{failure: "Error retrieving users"}
	opGetUser      = operation{failure: "Error retrieving user", notFound: "User not found"}
	opUpdateUser   = operation{failure: "Error updating user", notFound: "User not found"}
	opDeleteUser   = operation{failure: "Error deleting user", notFound: "User not found"}
	opActivateUser = operation{failure: "Error activating user", notFound: "User not found with provided email and username"}
)

// OperationError attaches the failing operation to err.
type OperationError struct {
	op  operation
	Err error
}

func (e *OperationError) Error() string {
	return e.op.failure + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }

func (op operation) wrap(err error) error {
	return &OperationError{op: op, Err: err}
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders every
// error as an envelope:
//   - validation failures and uniqueness conflicts → 400
//   - missing or soft-deleted targets → 404
//   - echo errors (bind failures, unknown routes, rate limits) → their own code
//   - anything else → 500, logged; the raw cause is included unless
//     exposeInternal is false
func NewHTTPErrorHandler(log zerolog.Logger, exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			if exposeInternal {
				body.Error = rootCause(err).Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, envelope) {
	var op operation
	var oe *OperationError
	if errors.As(err, &oe) {
		op = oe.op
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, failure(sentence(fmt.Sprintf("%v", he.Message)))
	}

	if ve, ok := domain.IsValidation(err); ok {
		return http.StatusBadRequest, failure(sentence(ve.Message))
	}

	if ce, ok := domain.IsConflict(err); ok {
		return http.StatusBadRequest, failure(conflictMessage(ce))
	}

	if domain.IsNotFound(err) {
		msg := op.notFound
		if msg == "" {
			msg = sentence(notFoundCause(err).Error())
		}
		return http.StatusNotFound, failure(msg)
	}

	msg := op.failure
	if msg == "" {
		msg = "Internal server error"
	}
	return http.StatusInternalServerError, failure(msg)
}

func conflictMessage(ce *domain.ConflictError) string {
	if ce.Entity == domain.EntityRole {
		return "Role " + ce.Error()
	}
	return ce.Error()
}

func notFoundCause(err error) error {
	if errors.Is(err, domain.ErrRoleNotFound) {
		return domain.ErrRoleNotFound
	}
	return domain.ErrUserNotFound
}

// rootCause strips the operation wrapper so clients see the storage error
// text without the handler prefix.
func rootCause(err error) error {
	var oe *OperationError
	if errors.As(err, &oe) {
		return oe.Err
	}
	return err
}

// sentence upper-cases the first letter of s.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
