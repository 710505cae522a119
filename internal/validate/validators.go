// Package validate implements field-level validation for user input.
//
// Every validator is a pure function returning an error message, or the
// empty string when the input is acceptable. Validators never panic and
// never return Go errors: unparsable input is a message, not an exception.
// Description and category inputs additionally run a deny-list scan for
// injection-style payloads; this is a client-only data set with no server
// behind it, so the defense targets data that could later be rendered
// unsafely or exported to another machine.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	reAmount   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	reDate     = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	reCategory = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)
	reName     = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	reRate     = regexp.MustCompile(`^\d+(\.\d{1,6})?$`)

	reLetters    = regexp.MustCompile(`[a-zA-Z]`)
	reNonNumeric = regexp.MustCompile(`[^0-9.]`)
	reWord       = regexp.MustCompile(`[0-9A-Za-z_]+`)
)

// blockedPattern pairs a deny-list regexp with the message reported when it
// matches. Patterns are checked in order; the first match wins.
type blockedPattern struct {
	re  *regexp.Regexp
	msg string
}

var blockedPatterns = []blockedPattern{
	// HTML / script injection
	{regexp.MustCompile(`(?i)<[^>]*>`), "Invalid content detected."},
	{regexp.MustCompile(`(?i)</?(script|iframe|object|embed|form|input|link|meta|style|svg|img|a)[^>]*>`), "Invalid content detected."},

	// Protocol attacks
	{regexp.MustCompile(`(?i)javascript\s*:`), "Invalid content detected."},
	{regexp.MustCompile(`(?i)vbscript\s*:`), "Invalid content detected."},
	{regexp.MustCompile(`(?i)data\s*:`), "Invalid content detected."},

	// Event handlers
	{regexp.MustCompile(`(?i)on\w+\s*=`), "Invalid content detected."},

	// Shell / terminal commands
	{regexp.MustCompile(`(?i)\b(rm|sudo|chmod|chown|kill|curl|wget|bash|sh|zsh|cmd|powershell|exec|eval|spawn|fork)\b`), "Command input is not allowed."},
	{regexp.MustCompile(`[|&;` + "`" + `$(){}\[\]\\]`), "Special characters are not allowed."},

	// SQL injection
	{regexp.MustCompile(`('|--|;|/\*|\*/)`), "Invalid characters detected."},
	{regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|alter|create|truncate|exec|execute|union|xp_)\b`), "Invalid content detected."},

	// Runtime / global object references
	{regexp.MustCompile(`(?i)\b(alert|confirm|prompt|msgbox|console\s*\.|document\s*\.|window\s*\.|process\s*\.|require\s*\()`), "Invalid content detected."},

	// Path traversal
	{regexp.MustCompile(`(?i)(\.\.[/\\]|[/\\]\.\.|%2e%2e)`), "Invalid content detected."},

	// Encoded attacks
	{regexp.MustCompile(`(?i)(%3c|%3e|%22|%27|%60|&#x|&#\d)`), "Invalid content detected."},
}

// detectMalicious scans the deny-list in order and returns the message of
// the first matching pattern, or "" when the input is clean.
func detectMalicious(val string) string {
	for _, bp := range blockedPatterns {
		if bp.re.MatchString(val) {
			return bp.msg
		}
	}
	return ""
}

// Description checks the free-text transaction description: required,
// at most 100 characters after trimming, no injection payloads.
func Description(val string) string {
	val = strings.TrimSpace(val)
	if val == "" {
		return "Description is required."
	}
	if utf8.RuneCountInString(val) > 100 {
		return "Description must be 100 characters or fewer."
	}
	return detectMalicious(val)
}

// DuplicateWords detects an immediately repeated whole word, case
// insensitively. It returns a warning naming the word, or "". The warning
// never blocks submission.
func DuplicateWords(val string) string {
	words := reWord.FindAllStringIndex(val, -1)
	for i := 1; i < len(words); i++ {
		prev, cur := words[i-1], words[i]
		between := val[prev[1]:cur[0]]
		if strings.TrimSpace(between) != "" {
			continue
		}
		a, b := val[prev[0]:prev[1]], val[cur[0]:cur[1]]
		if strings.EqualFold(a, b) {
			return fmt.Sprintf("Duplicate word detected: %q", a)
		}
	}
	return ""
}

// Amount checks a raw amount string. The check order matters: the letters
// check runs before the generic symbol check, which runs before the
// multiple-dot check, the strict format check and finally the range checks,
// so each failure mode keeps its distinct message.
func Amount(val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return "Amount is required."
	}
	if reLetters.MatchString(trimmed) {
		return "Amount must contain numbers only."
	}
	if reNonNumeric.MatchString(trimmed) {
		return "Amount must contain numbers only."
	}
	if strings.Count(trimmed, ".") > 1 {
		return "Enter a valid amount (e.g. 1000 or 12.50)."
	}
	if !reAmount.MatchString(trimmed) {
		return "Enter a valid amount (e.g. 1000 or 12.50)."
	}
	num, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "Enter a valid number."
	}
	if num <= 0 {
		return "Amount must be greater than zero."
	}
	if num > 1_000_000_000 {
		return "Amount is too large."
	}
	return ""
}

// Date checks an ISO YYYY-MM-DD date string. Month and day bounds are
// syntactic only (02-30 passes the shape check); anything at or after
// tomorrow's local midnight is rejected. ISO strings order lexicographically
// the same way they order chronologically, so the future check is a plain
// string comparison.
func Date(val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return "Date is required."
	}
	if !reDate.MatchString(trimmed) {
		return "Enter a valid date (YYYY-MM-DD)."
	}
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if trimmed >= tomorrow {
		return "Date cannot be in the future."
	}
	return ""
}

// Category checks a category value: required, clean, and shaped as
// letters, spaces and hyphens only.
func Category(val string) string {
	if strings.TrimSpace(val) == "" {
		return "Please select a category."
	}
	if msg := detectMalicious(val); msg != "" {
		return msg
	}
	if !reCategory.MatchString(strings.TrimSpace(val)) {
		return "Category may only contain letters, spaces, and hyphens."
	}
	return ""
}

// Name checks the profile user name: 2-50 characters, clean, and limited
// to letters, spaces, hyphens and apostrophes.
func Name(val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(trimmed) < 2 {
		return "Name must be at least 2 characters."
	}
	if utf8.RuneCountInString(trimmed) > 50 {
		return "Name must be 50 characters or fewer."
	}
	if msg := detectMalicious(trimmed); msg != "" {
		return msg
	}
	if !reName.MatchString(trimmed) {
		return "Name can only contain letters, spaces, hyphens, and apostrophes."
	}
	return ""
}

// Rate checks an exchange-rate string: positive decimal, up to six
// fractional digits.
func Rate(val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return "Rate is required."
	}
	if reLetters.MatchString(trimmed) {
		return "Rate must contain numbers only."
	}
	if !reRate.MatchString(trimmed) {
		return "Enter a valid positive number (e.g. 0.92)."
	}
	num, _ := strconv.ParseFloat(trimmed, 64)
	if num <= 0 {
		return "Rate must be greater than zero."
	}
	return ""
}

// BudgetCap checks a budget-cap string. Empty means "no cap" and is valid.
func BudgetCap(val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return ""
	}
	if reLetters.MatchString(trimmed) {
		return "Budget must contain numbers only."
	}
	if !reAmount.MatchString(trimmed) {
		return "Enter a valid amount (e.g. 500.00)."
	}
	num, _ := strconv.ParseFloat(trimmed, 64)
	if num <= 0 {
		return "Cap must be greater than zero."
	}
	return ""
}

// Transaction runs every field validator over a candidate record and
// returns a field-name keyed map of messages. An empty map means valid.
func Transaction(description, amount, date, category string) map[string]string {
	errs := make(map[string]string)
	if msg := Description(description); msg != "" {
		errs["description"] = msg
	}
	if msg := Amount(amount); msg != "" {
		errs["amount"] = msg
	}
	if msg := Date(date); msg != "" {
		errs["date"] = msg
	}
	if msg := Category(category); msg != "" {
		errs["category"] = msg
	}
	return errs
}

var sanitizers = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`<[^>]*>`), ""},            // HTML tags
	{regexp.MustCompile(`(?i)javascript\s*:`), ""}, // js: protocol
	{regexp.MustCompile(`(?i)vbscript\s*:`), ""},   // vbscript:
	{regexp.MustCompile(`(?i)data\s*:`), ""},       // data: URIs
	{regexp.MustCompile(`(?i)on\w+\s*=`), ""},      // event handlers
	{regexp.MustCompile("[|&;`$]"), ""},            // shell operators
}

// Sanitize strips dangerous content before storage. It is defense in depth,
// not a validation decision: validators decide accept/reject on the raw
// input, Sanitize only cleans what is about to be stored.
func Sanitize(val string) string {
	for _, s := range sanitizers {
		val = s.re.ReplaceAllString(val, s.with)
	}
	return strings.TrimSpace(val)
}
