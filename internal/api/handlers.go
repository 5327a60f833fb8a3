package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/dedupe"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/export"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// handleUpload ingests a multipart file upload, replaces the user's table
// and reports what the pipeline collected along the way. An optional
// "sheet" form field selects a workbook sheet for multi-sheet Excel files;
// an optional "manual_rows" field carries "date,name,amount[,type]" lines
// used when a document yields no extractable transactions.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	opts := ingest.Options{
		Sheet: c.PostForm("sheet"),
		OCR:   s.ocr,
	}
	if manual := c.PostForm("manual_rows"); manual != "" {
		opts.ManualEntry = func() ([]ingest.ManualRow, error) {
			return ingest.ParseManualRows(strings.NewReader(manual))
		}
	}

	result, err := s.pipeline.Process(fileHeader.Filename, data, opts)
	if err != nil {
		s.renderError(c, err)
		return
	}

	sess := s.session(c)
	if err := sess.Replace(result.Table, fileHeader.Filename, time.Now()); err != nil {
		s.renderError(c, err)
		return
	}

	if err := s.activity.Append(sess.Identity, "uploaded "+fileHeader.Filename); err != nil {
		s.logger.Warn().Err(err).Msg("activity log append failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":     fileHeader.Filename,
		"row_count":    result.RowCount,
		"column_count": result.ColumnCount,
		"warnings":     result.Warnings,
		"line_errors":  result.LineErrors,
	})
}

func (s *Server) handleTransactions(c *gin.Context) {
	table := s.session(c).Table()

	c.JSON(http.StatusOK, gin.H{
		"records":      table.Records,
		"columns":      table.Columns(),
		"row_count":    table.RowCount(),
		"column_count": table.ColumnCount(),
	})
}

// handleEditTransaction updates one record in place; the edit goes through
// the same validated save path as an upload.
func (s *Server) handleEditTransaction(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	var record schema.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed record: " + err.Error()})
		return
	}

	if failures := schema.ValidateRecords([]schema.Record{record}); len(failures) > 0 {
		s.renderError(c, &schema.ValidationError{Rows: failures})
		return
	}

	sess := s.session(c)
	if err := sess.Edit(index, record); err != nil {
		var validationErr *schema.ValidationError
		if errors.As(err, &validationErr) {
			s.renderError(c, err)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if err := s.activity.Append(sess.Identity, fmt.Sprintf("edited transaction %d", index)); err != nil {
		s.logger.Warn().Err(err).Msg("activity log append failed")
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// handleDuplicates runs the bounded duplicate scan over the cached table.
// An optional "threshold" query overrides the default similarity cutoff.
func (s *Server) handleDuplicates(c *gin.Context) {
	threshold := dedupe.DefaultThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be an integer between 1 and 100"})
			return
		}
		threshold = parsed
	}

	table := s.session(c).Table()
	result := dedupe.Detect(table.Records, threshold, s.DupScanCap)

	c.JSON(http.StatusOK, result)
}

// handleExport streams the cleaned table as a download. Supported formats:
// csv (default) and xlsx.
func (s *Server) handleExport(c *gin.Context) {
	sess := s.session(c)
	table := sess.Table()

	format := c.DefaultQuery("format", "csv")
	var (
		payload     []byte
		contentType string
		filename    string
		err         error
	)

	switch format {
	case "csv":
		payload, err = export.CSV(table)
		contentType = "text/csv"
		filename = "transactions.csv"
	case "xlsx":
		payload, err = export.Excel(table)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "transactions.xlsx"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.activity.Append(sess.Identity, "exported "+format); err != nil {
		s.logger.Warn().Err(err).Msg("activity log append failed")
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

func (s *Server) handleMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, s.session(c).Metadata())
}
