package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrjoshuak/eventfmt"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFormatter(t *testing.T) *eventfmt.Formatter {
	t.Helper()
	logger, _ := test.NewNullLogger()
	f := eventfmt.New(eventfmt.WithLogger(logger))
	t.Cleanup(f.Close)
	return f
}

func TestFormatCommandOutputs(t *testing.T) {
	f := testFormatter(t)
	text := "<p>Concert gratuit</p>\n<p>Info: test@example.com</p>"

	tests := []struct {
		name string
		cmd  formatCommand
		want string
	}{
		{
			name: "text",
			cmd:  formatCommand{Format: "text", Context: "title", MaxLength: 10},
			want: "Concert...\n",
		},
		{
			name: "text on mobile",
			cmd:  formatCommand{Format: "text", Context: "title", Screen: "mobile"},
			want: "Concert gratuit Info: test@example.com\n",
		},
		{
			name: "html",
			cmd:  formatCommand{Format: "html", Context: "description"},
			want: `<p class="formatted-paragraph formatted-paragraph-normal">Concert <span class="formatted-important">gratuit</span></p>` +
				`<p class="formatted-paragraph formatted-paragraph-normal">Info: <a href="mailto:test@example.com" class="formatted-email">test@example.com</a></p>` + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.cmd.write(f, text, &buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormatCommandJSON(t *testing.T) {
	f := testFormatter(t)

	var buf bytes.Buffer
	cmd := formatCommand{Format: "json", Context: "description", Compact: true}
	require.NoError(t, cmd.write(f, "Call +32 10 47 43 02 le 25/12/2024", &buf))

	var res Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.False(t, res.Formatted.IsTruncated)
	assert.NotEmpty(t, res.Special.Phones)
	assert.Equal(t, []string{"25/12/2024"}, res.Special.Dates)
	assert.Equal(t, 100, res.Profiles.Mobile.MaxLength)
	assert.Equal(t, 8, res.Overflow.WordCount)
}

func TestFormatCommandExecute(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "event.html")
	out := filepath.Join(dir, "event.txt")
	require.NoError(t, os.WriteFile(in, []byte("<b>Jazz</b> &amp; blues"), 0o644))

	opts = globalOptions{LogLevel: "error", CacheSize: 10}
	cmd := &formatCommand{Input: in, Output: out, Format: "text", Context: "title"}
	require.NoError(t, cmd.Execute(nil))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Jazz & blues\n", string(got))

	cmd.Input = filepath.Join(dir, "missing.html")
	assert.Error(t, cmd.Execute(nil))

	opts.Profiles = filepath.Join(dir, "missing.yaml")
	cmd.Input = in
	assert.ErrorIs(t, cmd.Execute(nil), os.ErrNotExist)
}

func TestNewFormatterStrictPhones(t *testing.T) {
	logger, _ := test.NewNullLogger()
	text := "Since 2024, call +32 10 47 43 02"

	opts = globalOptions{CacheSize: 10}
	f, err := newFormatter(logger)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"2024", "+32 10 47 43 02"}, f.ExtractSpecialContent(text).Phones)

	opts.StrictPhones = true
	strict, err := newFormatter(logger)
	require.NoError(t, err)
	defer strict.Close()
	assert.Equal(t, []string{"+32 10 47 43 02"}, strict.ExtractSpecialContent(text).Phones)
}
