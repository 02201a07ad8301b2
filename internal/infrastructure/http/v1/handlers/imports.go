// Package handlers provides HTTP handlers for the v1 API.
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/tx"
	"invoport/internal/importer"
	"invoport/internal/importer/dump"
)

// ImportHandler exposes the import pipeline over HTTP.
type ImportHandler struct {
	tx       tx.ReadOnlyManager
	repos    importer.Repos
	userID   id.ID
	verifier *importer.Verifier
}

// NewImportHandler creates a new import handler.
func NewImportHandler(txManager tx.ReadOnlyManager, repos importer.Repos, userID id.ID) *ImportHandler {
	return &ImportHandler{
		tx:       txManager,
		repos:    repos,
		userID:   userID,
		verifier: importer.NewVerifier(txManager, repos.Invoices),
	}
}

// Run handles POST /imports: accepts a multipart dump upload, runs every
// phase and returns the per-phase results. Form fields:
//
//	file     the legacy SQL dump (required)
//	dry_run  "true" to roll back every phase after counting
func (h *ImportHandler) Run(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperror.NewValidation("dump file is required").WithCause(err))
		c.Abort()
		return
	}
	dryRun := c.PostForm("dry_run") == "true"

	tmpDir, err := os.MkdirTemp("", "invoport-dump-*")
	if err != nil {
		_ = c.Error(apperror.NewInternal(err))
		c.Abort()
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		_ = c.Error(apperror.NewInternal(err))
		c.Abort()
		return
	}

	im := importer.New(h.tx, h.repos, h.userID)
	result := im.CompleteImport(c.Request.Context(), dump.NewReader(path), dryRun)

	status := http.StatusOK
	if result.Aborted != "" {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

// Verification handles GET /imports/verification: returns the read-only
// diagnostic report over persisted invoices.
func (h *ImportHandler) Verification(c *gin.Context) {
	report, err := h.verifier.Verify(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, report)
}
