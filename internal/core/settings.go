package core

import "encoding/json"

// Currency codes the tracker knows how to display.
const (
	CurrencyRWF = "RWF"
	CurrencyUSD = "USD"
	CurrencyNGN = "NGN"
)

// Settings is the single user profile/preferences record. BudgetCap is a
// pointer so "no cap set" survives JSON round-trips as null.
type Settings struct {
	UserName     string   `json:"userName"`
	BudgetCap    *float64 `json:"budgetCap"`
	BaseCurrency string   `json:"baseCurrency"`
	AltCurrency  string   `json:"altCurrency"`
	RateUSD      float64  `json:"rateUSD"`
	RateNGN      float64  `json:"rateNGN"`
	Theme        string   `json:"theme"`
}

// DefaultSettings returns the settings a fresh profile starts with.
func DefaultSettings() Settings {
	return Settings{
		UserName:     "",
		BudgetCap:    nil,
		BaseCurrency: CurrencyNGN,
		AltCurrency:  CurrencyUSD,
		RateUSD:      0.00069,
		RateNGN:      1.02,
		Theme:        "light",
	}
}

// SettingsPatch is an explicit partial update. A nil field means "leave
// alone"; BudgetCapSet distinguishes an absent budgetCap from an explicit
// null, which clears the cap.
type SettingsPatch struct {
	UserName     *string
	BudgetCap    *float64
	BudgetCapSet bool
	BaseCurrency *string
	AltCurrency  *string
	RateUSD      *float64
	RateNGN      *float64
	Theme        *string
}

// UnmarshalJSON records which fields were present so an explicit
// "budgetCap": null can be told apart from the field being omitted.
func (p *SettingsPatch) UnmarshalJSON(data []byte) error {
	var doc struct {
		UserName     *string          `json:"userName"`
		BudgetCap    *json.RawMessage `json:"budgetCap"`
		BaseCurrency *string          `json:"baseCurrency"`
		AltCurrency  *string          `json:"altCurrency"`
		RateUSD      *float64         `json:"rateUSD"`
		RateNGN      *float64         `json:"rateNGN"`
		Theme        *string          `json:"theme"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.UserName = doc.UserName
	p.BaseCurrency = doc.BaseCurrency
	p.AltCurrency = doc.AltCurrency
	p.RateUSD = doc.RateUSD
	p.RateNGN = doc.RateNGN
	p.Theme = doc.Theme
	if doc.BudgetCap != nil {
		p.BudgetCapSet = true
		if string(*doc.BudgetCap) != "null" {
			var cap float64
			if err := json.Unmarshal(*doc.BudgetCap, &cap); err != nil {
				return err
			}
			p.BudgetCap = &cap
		}
	}
	return nil
}

// Apply overlays the provided fields onto s and returns the merged settings.
// Unspecified fields keep their previous values.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.UserName != nil {
		s.UserName = *p.UserName
	}
	if p.BudgetCapSet {
		s.BudgetCap = p.BudgetCap
	}
	if p.BaseCurrency != nil {
		s.BaseCurrency = *p.BaseCurrency
	}
	if p.AltCurrency != nil {
		s.AltCurrency = *p.AltCurrency
	}
	if p.RateUSD != nil {
		s.RateUSD = *p.RateUSD
	}
	if p.RateNGN != nil {
		s.RateNGN = *p.RateNGN
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}

// DecodeSettings reads a persisted settings document, filling absent fields
// from defaults and migrating the legacy rate1/rate2 field names forward.
// A document that does not parse degrades to the defaults.
func DecodeSettings(data []byte) Settings {
	s := DefaultSettings()
	if len(data) == 0 {
		return s
	}
	var doc struct {
		UserName     *string  `json:"userName"`
		BudgetCap    *float64 `json:"budgetCap"`
		BaseCurrency *string  `json:"baseCurrency"`
		AltCurrency  *string  `json:"altCurrency"`
		RateUSD      *float64 `json:"rateUSD"`
		RateNGN      *float64 `json:"rateNGN"`
		Rate1        *float64 `json:"rate1"`
		Rate2        *float64 `json:"rate2"`
		Theme        *string  `json:"theme"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return DefaultSettings()
	}
	if doc.UserName != nil {
		s.UserName = *doc.UserName
	}
	s.BudgetCap = doc.BudgetCap
	if doc.BaseCurrency != nil {
		s.BaseCurrency = *doc.BaseCurrency
	}
	if doc.AltCurrency != nil {
		s.AltCurrency = *doc.AltCurrency
	}
	if doc.RateUSD != nil {
		s.RateUSD = *doc.RateUSD
	} else if doc.Rate1 != nil {
		s.RateUSD = *doc.Rate1
	}
	if doc.RateNGN != nil {
		s.RateNGN = *doc.RateNGN
	} else if doc.Rate2 != nil {
		s.RateNGN = *doc.Rate2
	}
	if doc.Theme != nil {
		s.Theme = *doc.Theme
	}
	return s
}

// Clone returns a copy that shares no pointers with s.
func (s Settings) Clone() Settings {
	if s.BudgetCap != nil {
		cap := *s.BudgetCap
		s.BudgetCap = &cap
	}
	return s
}
