package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func matches(m Matcher, s string) []string {
	var out []string
	for _, loc := range m.FindAllIndex(s) {
		out = append(out, s[loc[0]:loc[1]])
	}
	return out
}

func TestDefaultMatchers(t *testing.T) {
	lib := Default()
	tests := []struct {
		name     string
		category Category
		input    string
		want     []string
	}{
		{"url", URL, "Go to https://example.com/a?b=1 now", []string{"https://example.com/a?b=1"}},
		{"url trailing period", URL, "See http://example.com.", []string{"http://example.com"}},
		{"url in parentheses", URL, "(https://example.com/x)", []string{"https://example.com/x"}},
		{"email", Email, "Write to jean.dupont+events@mairie.example.fr today", []string{"jean.dupont+events@mairie.example.fr"}},
		{"phone international", Phone, "Call +32 10 47 43 02", []string{"+32 10 47 43 02"}},
		{"phone dotted", Phone, "Tel 01.45.67.89.00", []string{"01.45.67.89.00"}},
		{"phone grammar over-matches digit runs", Phone, "Since 2024", []string{"2024"}},
		{"date slashes", Date, "On 21/06/2024 and 1-7-24", []string{"21/06/2024", "1-7-24"}},
		{"time french", Time, "Doors 19h30, show 20:00", []string{"19h30", "20:00"}},
		{"important multiword", ImportantWord, "Tickets SOLD OUT, new date", []string{"SOLD OUT", "new"}},
		{"important whole words only", ImportantWord, "renewed freedom", nil},
		{"important accented boundary", ImportantWord, "Concert annulé.", []string{"annulé"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(lib.Matcher(tt.category), tt.input))
		})
	}
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "formatted-url", URL.ClassName())
	assert.Equal(t, "formatted-important", ImportantWord.ClassName())
	assert.Equal(t, "unknown", Category(42).String())
	assert.True(t, Phone.Linkable())
	assert.False(t, Date.Linkable())
}

func TestOrder(t *testing.T) {
	assert.Equal(t, []Category{URL, Email, Phone, Date, Time, ImportantWord}, Order)
}

func TestWithMatcher(t *testing.T) {
	lib := WithMatcher(Default(), ImportantWord, NewWordMatcher([]string{"vip", "backstage pass"}))
	assert.Equal(t, []string{"Backstage  pass"}, matches(lib.Matcher(ImportantWord), "Backstage  pass, free"))
	assert.Equal(t, []string{"https://x.io"}, matches(lib.Matcher(URL), "https://x.io"))
}

func TestIsEmailAndIsURL(t *testing.T) {
	assert.True(t, IsEmail("info@example.org"))
	assert.False(t, IsEmail("mail info@example.org"))
	assert.True(t, IsURL("HTTPS://example.com"))
	assert.True(t, IsURL("www.example.com"))
	assert.False(t, IsURL("example.com"))
}

func TestPhoneMatcherMinDigits(t *testing.T) {
	strict := PhoneMatcher(MinPhoneDigits)
	assert.Nil(t, matches(strict, "Room 12, since 2024"))
	assert.Equal(t, []string{"+32 10 47 43 02"}, matches(strict, "Since 2024, call +32 10 47 43 02"))

	lib := WithMatcher(Default(), Phone, strict)
	assert.Nil(t, matches(lib.Matcher(Phone), "Since 2024"))
	assert.Equal(t, []string{"2024"}, matches(Default().Matcher(Phone), "Since 2024"))
}
