package response

import (
	"net/http"

	"cinetix/internal/shared/errs"

	"github.com/gin-gonic/gin"
)

// RespondError maps a domain error to its HTTP status and writes the
// standard envelope. Unclassified errors are reported as 500 without
// leaking storage details.
func RespondError(c *gin.Context, err error) {
	switch {
	case errs.IsNotFound(err):
		RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errs.IsValidation(err):
		RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errs.IsConflict(err):
		RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errs.IsForbidden(err):
		RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errs.IsInvalidState(err):
		RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	default:
		RespondJSON(c, "error", http.StatusInternalServerError, "internal server error", nil, nil)
	}
}
