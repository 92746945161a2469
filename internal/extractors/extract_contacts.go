package extractors

import (
	"strings"

	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"github.com/mrjoshuak/eventfmt/internal/simplifiers"
)

// ContactType is either "email" or "phone".
type ContactType string

const (
	ContactEmail ContactType = "email"
	ContactPhone ContactType = "phone"
)

// ExtractedContact is an email address or phone number with a ready-to-use
// mailto: or tel: link.
type ExtractedContact struct {
	Type  ContactType `json:"type"`
	Value string      `json:"value"`
	Href  string      `json:"href"`
}

// ExtractContacts returns the emails then the phone numbers found in the
// cleaned text, followed by mailto: and tel: anchors of the raw markup that
// the text did not already mention.
func ExtractContacts(raw, cleaned string, lib patterns.Library) []ExtractedContact {
	if lib == nil {
		lib = patterns.Default()
	}
	special := ExtractSpecialContent(cleaned, lib)
	contacts := []ExtractedContact{}
	seen := make(map[string]bool)

	add := func(c ExtractedContact) {
		if seen[c.Href] {
			return
		}
		seen[c.Href] = true
		contacts = append(contacts, c)
	}

	for _, e := range special.Emails {
		add(ExtractedContact{Type: ContactEmail, Value: e, Href: EmailHref(e)})
	}
	for _, p := range special.Phones {
		add(ExtractedContact{Type: ContactPhone, Value: p, Href: PhoneHref(p)})
	}

	for _, a := range simplifiers.ExtractAnchors(raw) {
		lower := strings.ToLower(a.Href)
		switch {
		case strings.HasPrefix(lower, "mailto:"):
			value := strings.SplitN(a.Href[len("mailto:"):], "?", 2)[0]
			add(ExtractedContact{Type: ContactEmail, Value: value, Href: EmailHref(value)})
		case strings.HasPrefix(lower, "tel:"):
			value := a.Href[len("tel:"):]
			add(ExtractedContact{Type: ContactPhone, Value: value, Href: PhoneHref(value)})
		}
	}
	return contacts
}

// EmailHref returns the mailto: link for an address.
func EmailHref(email string) string {
	return "mailto:" + email
}

// PhoneHref returns the tel: link for a phone number, keeping only digits
// and a leading plus sign.
func PhoneHref(phone string) string {
	var b strings.Builder
	b.WriteString("tel:")
	for i, r := range phone {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
