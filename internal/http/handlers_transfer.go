package http

import (
	"fmt"
	"io"
	"net/http"

	"rocel/internal/log"
	"rocel/internal/transfer"
)

// maxImportBytes caps the size of an uploaded backup.
const maxImportBytes = 10 << 20

// handleExport streams the full data set as a downloadable JSON backup.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	snap := s.store.Snapshot()
	data, err := transfer.Export(snap.Transactions, snap.Settings)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed", log.FieldError, err.Error())
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", transfer.ExportFilename()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to write export", log.FieldError, err.Error())
	}

	s.logger.InfoContext(r.Context(), "Exported data set",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(snap.Transactions))
}

// handleImport replaces the full data set from an uploaded backup. The
// upload is all-or-nothing: any bad record rejects the whole file and
// leaves the current data untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	txns, settings, err := transfer.Import(data)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.store.ReplaceAll(r.Context(), txns)
	if settings != nil {
		s.store.ReplaceSettings(r.Context(), *settings)
	}
	s.invalidateSummary()

	s.logger.InfoContext(r.Context(), "Imported data set",
		log.FieldOperation, log.OpImport,
		log.FieldCount, len(txns))
	writeJSON(w, r, http.StatusOK, map[string]int{"imported": len(txns)})
}
