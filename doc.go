/*
Package eventfmt cleans, truncates and structures the text of event listings
(titles, descriptions, locations) so it can be shown on any screen, from a
phone to a public-display TV.

Descriptions pulled from external calendars are often malformed HTML with
mixed line breaks, contact details and informal lists. A Formatter turns
them into plain text, finds the special content they hold (URLs, emails,
phone numbers, dates, times and important words), truncates them without
cutting a word, an email or a URL in an unreadable place, and renders
paragraphs and lists as class-annotated HTML.

Basic Usage:

	f := eventfmt.New()
	defer f.Close()

	title := f.FormatTitle(event.Title, eventfmt.WithMaxLength(40))
	fmt.Println(title.Content, title.IsTruncated)

	special := f.ExtractSpecialContent(event.Description)
	fmt.Println(special.Emails, special.Phones)

Advanced Usage with Options:

	f := eventfmt.New(
		eventfmt.WithCacheSize(5000),
		eventfmt.WithCacheTTL(10*time.Minute),
		eventfmt.WithLogger(logger),
	)

	content, err := f.ProcessAdvancedContentLazy(ctx, event.Description, nil, eventfmt.PriorityHigh)

Screen-size profiles:

Truncation budgets for each context (title, description, preview) and screen
size (mobile, tablet, desktop, tv) come from an embedded YAML document and
can be replaced with WithProfiles and LoadProfiles. TruncationSuggestions
adapts a context's profiles to a given text.

Caching:

Every operation is cached by its input and options. Entries expire a fixed
time after they are written, and a full cache drops its oldest quarter.
Close stops the background sweeper and must be called when the Formatter is
no longer needed.

Lengths are counted in Unicode code points.
*/
package eventfmt
