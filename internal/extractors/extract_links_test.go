package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	raw := `Book at <a href="https://tickets.example.com/42">our shop</a> or see https://www.example.org/info.`
	cleaned := "Book at our shop or see https://www.example.org/info."

	got := ExtractLinks(raw, cleaned, nil)
	assert.Equal(t, []ExtractedLink{
		{URL: "https://tickets.example.com/42", Text: "our shop", Domain: "tickets.example.com", Source: SourceAnchor},
		{URL: "https://www.example.org/info", Text: "https://www.example.org/info", Domain: "example.org", Source: SourceText},
	}, got)
}

func TestExtractLinksAnchorWinsOverText(t *testing.T) {
	raw := `<a href="https://example.com">https://example.com</a>`
	got := ExtractLinks(raw, "https://example.com", nil)
	assert.Len(t, got, 1)
	assert.Equal(t, SourceAnchor, got[0].Source)
}

func TestExtractLinksNone(t *testing.T) {
	got := ExtractLinks("", "", nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.Example.com/path", "example.com"},
		{"http://tickets.example.org:8080/x", "tickets.example.org"},
		{"www.example.net", "example.net"},
		{"://bad", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.input), tt.input)
	}
}

func TestExtractContacts(t *testing.T) {
	raw := `Mail <a href="mailto:booking@example.org?subject=Hi">us</a> or info@example.org, call +32 10 47 43 02`
	cleaned := "Mail us or info@example.org, call +32 10 47 43 02"

	got := ExtractContacts(raw, cleaned, nil)
	assert.Equal(t, []ExtractedContact{
		{Type: ContactEmail, Value: "info@example.org", Href: "mailto:info@example.org"},
		{Type: ContactPhone, Value: "+32 10 47 43 02", Href: "tel:+3210474302"},
		{Type: ContactEmail, Value: "booking@example.org", Href: "mailto:booking@example.org"},
	}, got)
}

func TestPhoneHref(t *testing.T) {
	assert.Equal(t, "tel:+33145678900", PhoneHref("+33 (1) 45-67-89-00"))
	assert.Equal(t, "tel:0145678900", PhoneHref("01.45.67.89.00"))
}
