package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"rocel/internal/core"
	"rocel/internal/log"
	"rocel/internal/query"
	"rocel/internal/store"
	"rocel/internal/validate"
)

// transactionRequest is the write payload for creating or replacing a
// transaction. Amount is raw so clients may send "3.50" or 3.5.
type transactionRequest struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
}

// amountString renders the raw amount field the way the validators expect
// user input: a plain string, quotes stripped.
func (tr transactionRequest) amountString() string {
	raw := strings.TrimSpace(string(tr.Amount))
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	if raw == "null" {
		return ""
	}
	return raw
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "transaction not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		methodNotAllowed(w, r)
	}
}

// listTransactions runs the filter/search/sort pipeline described by the
// request's query parameters and returns the matching rows with
// highlight spans.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	criteria := query.Criteria{
		SortKey:        query.SortKey(params.Get("sort")),
		SortDir:        query.SortDir(params.Get("dir")),
		Search:         params.Get("q"),
		CaseSensitive:  params.Get("case") == "1" || params.Get("case") == "true",
		FilterType:     params.Get("type"),
		FilterCategory: params.Get("category"),
	}

	result := s.engine.Run(s.store.ListAll(), criteria)
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fields := validate.Transaction(req.Description, req.amountString(), req.Date, req.Category)
	if !core.TransactionType(req.Type).IsValid() {
		fields["type"] = "Select income or expense."
	}
	if len(fields) > 0 {
		writeFieldErrors(w, r, fields)
		return
	}

	amount, err := strconv.ParseFloat(req.amountString(), 64)
	if err != nil {
		writeFieldErrors(w, r, map[string]string{"amount": "Enter a valid amount (e.g. 1000 or 12.50)."})
		return
	}

	now := core.NowISO()
	tx := core.Transaction{
		ID:          core.NewID(),
		Description: validate.Sanitize(req.Description),
		Amount:      amount,
		Category:    validate.Sanitize(req.Category),
		Date:        strings.TrimSpace(req.Date),
		Type:        core.TransactionType(req.Type),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.store.Add(r.Context(), tx)
	s.invalidateSummary()

	s.reqLog.LogTransactionChange(r.Context(), log.OpCreate, tx.ID, string(tx.Type), tx.Category)
	writeJSON(w, r, http.StatusCreated, tx)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fields := validate.Transaction(req.Description, req.amountString(), req.Date, req.Category)
	if !core.TransactionType(req.Type).IsValid() {
		fields["type"] = "Select income or expense."
	}
	if len(fields) > 0 {
		writeFieldErrors(w, r, fields)
		return
	}

	amount, err := strconv.ParseFloat(req.amountString(), 64)
	if err != nil {
		writeFieldErrors(w, r, map[string]string{"amount": "Enter a valid amount (e.g. 1000 or 12.50)."})
		return
	}

	patch := store.TransactionPatch{
		Description: validate.Sanitize(req.Description),
		Amount:      amount,
		Category:    validate.Sanitize(req.Category),
		Date:        strings.TrimSpace(req.Date),
		Type:        core.TransactionType(req.Type),
	}

	tx, ok := s.store.Update(r.Context(), id, patch)
	if !ok {
		writeError(w, r, http.StatusNotFound, "transaction not found")
		return
	}
	s.invalidateSummary()

	s.reqLog.LogTransactionChange(r.Context(), log.OpUpdate, tx.ID, string(tx.Type), tx.Category)
	writeJSON(w, r, http.StatusOK, tx)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if !s.store.Delete(r.Context(), id) {
		writeError(w, r, http.StatusNotFound, "transaction not found")
		return
	}
	s.invalidateSummary()

	s.reqLog.LogTransactionChange(r.Context(), log.OpDelete, id, "", "")
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSummary serves the dashboard aggregates, cached between mutations.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	if summary, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, r, http.StatusOK, summary)
		return
	}

	snap := s.store.Snapshot()
	summary := s.engine.Summarize(snap.Transactions, snap.Settings)
	s.summaryCache.Set(summaryCacheKey, summary)
	writeJSON(w, r, http.StatusOK, summary)
}
