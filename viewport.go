package eventfmt

import (
	"errors"

	"github.com/mrjoshuak/eventfmt/internal/resize"
)

// OnResize subscribes h to debounced viewport changes and returns the
// function that cancels the subscription. A failing or panicking handler is
// logged and does not affect the others.
func (f *Formatter) OnResize(h ResizeHandler) (func(), error) {
	unsubscribe, err := f.resize.Subscribe(h)
	if errors.Is(err, resize.ErrClosed) {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, WrapError(err, ResizeError, "OnResize")
	}
	return unsubscribe, nil
}

// Resize reports a viewport change to the default ManualSource. It returns
// false when the formatter uses another source or nothing is subscribed.
func (f *Formatter) Resize(v Viewport) bool {
	src, ok := f.source.(*resize.ManualSource)
	if !ok {
		return false
	}
	return src.Resize(v)
}

// Viewport returns the last viewport delivered to subscribers.
func (f *Formatter) Viewport() Viewport {
	return f.resize.Last()
}

// ScreenSize classifies the last delivered viewport. Before any resize it
// reports Desktop.
func (f *Formatter) ScreenSize() ScreenSize {
	v := f.resize.Last()
	if v.Width <= 0 {
		return ScreenDesktop
	}
	return ScreenSizeFor(v.Width)
}
