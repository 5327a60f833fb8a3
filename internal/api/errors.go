package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// renderError maps pipeline and persistence errors onto HTTP responses.
// Sheet selection is a conflict the client can resolve and retry; schema
// failures are unprocessable content; format problems are bad requests.
func (s *Server) renderError(c *gin.Context, err error) {
	var sheetErr *ingest.SheetChoiceError
	if errors.As(err, &sheetErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "workbook has multiple sheets, pick one via the sheet form field",
			"sheets": sheetErr.Sheets,
		})
		return
	}

	if errors.Is(err, ingest.ErrManualEntryRequired) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var validationErr *schema.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "invalid data format",
			"rows":  validationErr.Rows,
		})
		return
	}

	var decodeErr *ingest.DecodeError
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat),
		errors.Is(err, ingest.ErrEmptyContent),
		errors.Is(err, ingest.ErrNoArchiveMember),
		errors.As(err, &decodeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.logger.Error().Err(err).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
