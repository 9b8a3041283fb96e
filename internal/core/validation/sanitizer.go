// Package validation holds the input checks that run before any business
// logic: the sanitizer, the aggregating field validator used for accounts and
// the fail-fast business validator used for catalog items.
package validation

import (
	"regexp"
	"strings"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)DROP\s+TABLE`),
	regexp.MustCompile(`;`),
}

// Sanitizer neutralises script and query-control substrings in free text.
// It is not a replacement for parameterised persistence access.
type Sanitizer struct{}

// NewSanitizer returns a Sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Text strips dangerous substrings and trims whitespace. Removal can splice
// new matches together ("javajavascript:script:"), so passes repeat until the
// output stops changing; this makes Text idempotent. Every productive pass
// shortens the string, so the loop terminates.
func (s *Sanitizer) Text(in string) string {
	out := in
	for {
		next := out
		for _, re := range dangerousPatterns {
			next = re.ReplaceAllString(next, "")
		}
		next = strings.TrimSpace(next)
		if next == out {
			return out
		}
		out = next
	}
}

type fieldRule int

const (
	ruleText fieldRule = iota
	// rulePreserve leaves the value untouched. Used for secrets, where any
	// rewrite would silently change the credential.
	rulePreserve
)

type stringField[T any] struct {
	name string
	rule fieldRule
	ref  func(*T) *string
}

func applyRules[T any](s *Sanitizer, v *T, fields []stringField[T]) {
	for _, f := range fields {
		if f.rule == rulePreserve {
			continue
		}
		p := f.ref(v)
		*p = s.Text(*p)
	}
}

var registrationFields = []stringField[RegistrationInput]{
	{name: "username", rule: ruleText, ref: func(r *RegistrationInput) *string { return &r.Username }},
	{name: "email", rule: ruleText, ref: func(r *RegistrationInput) *string { return &r.Email }},
	{name: "password", rule: rulePreserve, ref: func(r *RegistrationInput) *string { return &r.Password }},
	{name: "fullName", rule: ruleText, ref: func(r *RegistrationInput) *string { return &r.FullName }},
	{name: "phone", rule: ruleText, ref: func(r *RegistrationInput) *string { return &r.Phone }},
	{name: "address", rule: ruleText, ref: func(r *RegistrationInput) *string { return &r.Address }},
}

var profileFields = []stringField[ProfileInput]{
	{name: "fullName", rule: ruleText, ref: func(p *ProfileInput) *string { return &p.FullName }},
	{name: "phone", rule: ruleText, ref: func(p *ProfileInput) *string { return &p.Phone }},
	{name: "address", rule: ruleText, ref: func(p *ProfileInput) *string { return &p.Address }},
}

var foodFields = []stringField[domain.FoodDraft]{
	{name: "name", rule: ruleText, ref: func(d *domain.FoodDraft) *string { return &d.Name }},
	{name: "description", rule: ruleText, ref: func(d *domain.FoodDraft) *string { return &d.Description }},
	{name: "category", rule: ruleText, ref: func(d *domain.FoodDraft) *string { return &d.Category }},
	{name: "image", rule: ruleText, ref: func(d *domain.FoodDraft) *string { return &d.Image }},
}

// SanitizeRegistration returns a sanitized copy of in.
func (s *Sanitizer) SanitizeRegistration(in RegistrationInput) RegistrationInput {
	applyRules(s, &in, registrationFields)
	return in
}

// SanitizeProfile returns a sanitized copy of in.
func (s *Sanitizer) SanitizeProfile(in ProfileInput) ProfileInput {
	applyRules(s, &in, profileFields)
	return in
}

// SanitizeFoodDraft returns a sanitized copy of d. Numeric and boolean fields
// pass through unchanged.
func (s *Sanitizer) SanitizeFoodDraft(d domain.FoodDraft) domain.FoodDraft {
	applyRules(s, &d, foodFields)
	return d
}

var orderFields = []stringField[domain.OrderDraft]{
	{name: "specialInstructions", rule: ruleText, ref: func(o *domain.OrderDraft) *string { return &o.SpecialInstructions }},
	{name: "deliveryAddress", rule: ruleText, ref: func(o *domain.OrderDraft) *string { return &o.DeliveryAddress }},
	{name: "phone", rule: ruleText, ref: func(o *domain.OrderDraft) *string { return &o.Phone }},
}

// SanitizeOrderDraft returns a sanitized copy of d. Item lines are ids and
// quantities and are left alone.
func (s *Sanitizer) SanitizeOrderDraft(d domain.OrderDraft) domain.OrderDraft {
	applyRules(s, &d, orderFields)
	return d
}
