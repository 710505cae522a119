package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rocel/internal/core"
	"rocel/internal/validate"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, s.store.Settings())
	case http.MethodPatch:
		s.patchSettings(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) patchSettings(w http.ResponseWriter, r *http.Request) {
	var patch core.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if fields := validateSettingsPatch(patch); len(fields) > 0 {
		writeFieldErrors(w, r, fields)
		return
	}

	if patch.UserName != nil {
		clean := validate.Sanitize(*patch.UserName)
		patch.UserName = &clean
	}

	updated := s.store.UpdateSettings(r.Context(), patch)
	s.invalidateSummary()
	writeJSON(w, r, http.StatusOK, updated)
}

// validateSettingsPatch checks only the fields the patch provides.
func validateSettingsPatch(patch core.SettingsPatch) map[string]string {
	fields := make(map[string]string)

	if patch.UserName != nil {
		if msg := validate.Name(*patch.UserName); msg != "" {
			fields["userName"] = msg
		}
	}
	if patch.BudgetCapSet && patch.BudgetCap != nil {
		capText := strconv.FormatFloat(*patch.BudgetCap, 'f', -1, 64)
		if msg := validate.BudgetCap(capText); msg != "" {
			fields["budgetCap"] = msg
		}
	}
	if patch.RateUSD != nil {
		rateText := strconv.FormatFloat(*patch.RateUSD, 'f', -1, 64)
		if msg := validate.Rate(rateText); msg != "" {
			fields["rateUSD"] = msg
		}
	}
	if patch.RateNGN != nil {
		rateText := strconv.FormatFloat(*patch.RateNGN, 'f', -1, 64)
		if msg := validate.Rate(rateText); msg != "" {
			fields["rateNGN"] = msg
		}
	}
	if patch.Theme != nil && *patch.Theme != "light" && *patch.Theme != "dark" {
		fields["theme"] = "Choose light or dark."
	}
	if patch.BaseCurrency != nil && !knownCurrency(*patch.BaseCurrency) {
		fields["baseCurrency"] = "Unknown currency."
	}
	if patch.AltCurrency != nil && !knownCurrency(*patch.AltCurrency) {
		fields["altCurrency"] = "Unknown currency."
	}

	return fields
}

func knownCurrency(code string) bool {
	switch code {
	case core.CurrencyRWF, core.CurrencyUSD, core.CurrencyNGN:
		return true
	}
	return false
}
