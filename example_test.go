package eventfmt_test

import (
	"fmt"

	"github.com/mrjoshuak/eventfmt"
)

func ExampleNew() {
	f := eventfmt.New()
	defer f.Close()

	fmt.Println(f.CleanHTMLContent("<p>This is <strong>bold</strong> text.</p>"))
	// Output: This is bold text.
}

func ExampleFormatter_FormatTitle() {
	f := eventfmt.New()
	defer f.Close()

	title := f.FormatTitle("supercalifragilisticexpialidocious",
		eventfmt.WithMaxLength(20),
		eventfmt.WithBreakLongWords(true),
	)
	fmt.Println(title.Content, title.IsTruncated)
	// Output: supercalifragili-... true
}

func ExampleFormatter_FormatWithHighlights() {
	f := eventfmt.New()
	defer f.Close()

	html := f.FormatWithHighlights("Write to test@example.com", &eventfmt.HighlightOptions{
		Emails:         true,
		ClickableLinks: true,
	})
	fmt.Println(html)
	// Output: Write to <a href="mailto:test@example.com" class="formatted-email">test@example.com</a>
}

func ExampleScreenSizeFor() {
	fmt.Println(eventfmt.ScreenSizeFor(390), eventfmt.ScreenSizeFor(1280))
	// Output: mobile desktop
}
