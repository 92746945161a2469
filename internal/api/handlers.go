// Package api serves the formatter over HTTP as JSON for display clients.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrjoshuak/eventfmt"
	"github.com/mrjoshuak/eventfmt/internal/lazy"
	"github.com/mrjoshuak/eventfmt/internal/profiles"
	"github.com/sirupsen/logrus"
)

// Handler handles HTTP requests for the formatting API
type Handler struct {
	formatter   *eventfmt.Formatter
	log         logrus.FieldLogger
	unsubscribe func()
}

// NewHandler creates a handler over f. It subscribes to viewport changes so
// that clients can report their size through POST /v1/viewport.
func NewHandler(f *eventfmt.Formatter, log logrus.FieldLogger) (*Handler, error) {
	h := &Handler{formatter: f, log: log.WithField("component", "api")}
	unsubscribe, err := f.OnResize(func(v eventfmt.Viewport) error {
		h.log.WithFields(logrus.Fields{
			"width":       v.Width,
			"height":      v.Height,
			"screen_size": eventfmt.ScreenSizeFor(v.Width),
		}).Info("Viewport changed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.unsubscribe = unsubscribe
	return h, nil
}

// Close cancels the viewport subscription.
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type formatRequest struct {
	Text           string `json:"text"`
	MaxLength      *int   `json:"max_length"`
	PreserveWords  *bool  `json:"preserve_words"`
	ShowEllipsis   *bool  `json:"show_ellipsis"`
	BreakLongWords *bool  `json:"break_long_words"`
	// Screen selects a profile instead of the explicit options.
	Screen string `json:"screen"`
}

func (r formatRequest) options() []eventfmt.TruncateOption {
	var opts []eventfmt.TruncateOption
	if r.MaxLength != nil {
		opts = append(opts, eventfmt.WithMaxLength(*r.MaxLength))
	}
	if r.PreserveWords != nil {
		opts = append(opts, eventfmt.WithPreserveWords(*r.PreserveWords))
	}
	if r.ShowEllipsis != nil {
		opts = append(opts, eventfmt.WithEllipsis(*r.ShowEllipsis))
	}
	if r.BreakLongWords != nil {
		opts = append(opts, eventfmt.WithBreakLongWords(*r.BreakLongWords))
	}
	return opts
}

type highlightRequest struct {
	Text    string                     `json:"text"`
	Options *eventfmt.HighlightOptions `json:"options"`
}

type advancedRequest struct {
	Text     string                    `json:"text"`
	Options  *eventfmt.AdvancedOptions `json:"options"`
	Priority string                    `json:"priority"`
}

type batchRequest struct {
	Texts    []string                  `json:"texts" binding:"required"`
	Options  *eventfmt.AdvancedOptions `json:"options"`
	Priority string                    `json:"priority"`
}

type overflowRequest struct {
	Text           string `json:"text"`
	MaxLength      int    `json:"max_length" binding:"min=0"`
	ContainerWidth int    `json:"container_width" binding:"min=0"`
}

type suggestionsRequest struct {
	Text    string `json:"text"`
	Context string `json:"context" binding:"required"`
}

type viewportRequest struct {
	Width  int `json:"width" binding:"required,min=1"`
	Height int `json:"height" binding:"min=0"`
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, eventfmt.ErrUnknownContext), errors.Is(err, lazy.ErrTypeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, eventfmt.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// HealthCheck reports the service version.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "name": eventfmt.Name, "version": eventfmt.Version})
}

// FormatTitle handles POST /v1/format/title.
func (h *Handler) FormatTitle(c *gin.Context) {
	h.format(c, eventfmt.ContextTitle)
}

// FormatDescription handles POST /v1/format/description.
func (h *Handler) FormatDescription(c *gin.Context) {
	h.format(c, eventfmt.ContextDescription)
}

func (h *Handler) format(c *gin.Context, ctx eventfmt.Context) {
	var req formatRequest
	if !h.bind(c, &req) {
		return
	}

	if req.Screen != "" {
		size := eventfmt.ScreenSize(req.Screen)
		if !validScreen(size) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown screen size " + req.Screen})
			return
		}
		res, err := h.formatter.FormatFor(req.Text, ctx, size)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	if ctx == eventfmt.ContextTitle {
		c.JSON(http.StatusOK, h.formatter.FormatTitle(req.Text, req.options()...))
		return
	}
	c.JSON(http.StatusOK, h.formatter.FormatDescription(req.Text, req.options()...))
}

func validScreen(size eventfmt.ScreenSize) bool {
	for _, s := range profiles.ScreenSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Clean handles POST /v1/clean.
func (h *Handler) Clean(c *gin.Context) {
	var req textRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.formatter.CleanHTMLContent(req.Text)})
}

// SpecialContent handles POST /v1/special.
func (h *Handler) SpecialContent(c *gin.Context) {
	var req textRequest
	if !h.bind(c, &req) {
		return
	}
	sc := h.formatter.ExtractSpecialContent(req.Text)
	c.JSON(http.StatusOK, gin.H{"content": sc, "has_special_content": sc.HasSpecialContent()})
}

// Highlight handles POST /v1/highlight.
func (h *Handler) Highlight(c *gin.Context) {
	var req highlightRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"html":     h.formatter.FormatWithHighlights(req.Text, req.Options),
		"segments": h.formatter.Highlight(req.Text, req.Options),
	})
}

// Links handles POST /v1/links with every display projection of a text.
func (h *Handler) Links(c *gin.Context) {
	var req textRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"links":    h.formatter.ExtractLinks(req.Text),
		"contacts": h.formatter.ExtractContacts(req.Text),
		"dates":    h.formatter.ExtractDates(req.Text),
		"images":   h.formatter.ExtractImages(req.Text),
	})
}

// Advanced handles POST /v1/advanced.
func (h *Handler) Advanced(c *gin.Context) {
	var req advancedRequest
	if !h.bind(c, &req) {
		return
	}
	prio, err := lazy.ParsePriority(req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.formatter.ProcessAdvancedContentLazy(c.Request.Context(), req.Text, req.Options, prio)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Batch handles POST /v1/batch.
func (h *Handler) Batch(c *gin.Context) {
	var req batchRequest
	if !h.bind(c, &req) {
		return
	}
	prio, err := lazy.ParsePriority(req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.formatter.ProcessBatch(c.Request.Context(), req.Texts, req.Options, prio)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res})
}

// Overflow handles POST /v1/overflow.
func (h *Handler) Overflow(c *gin.Context) {
	var req overflowRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.formatter.AnalyzeTextOverflow(req.Text, req.MaxLength, req.ContainerWidth))
}

// Suggestions handles POST /v1/suggestions.
func (h *Handler) Suggestions(c *gin.Context) {
	var req suggestionsRequest
	if !h.bind(c, &req) {
		return
	}
	ctx, err := profiles.ParseContext(req.Context)
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.formatter.TruncationSuggestions(req.Text, ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Stats handles GET /v1/stats.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.formatter.Stats())
}

// ClearCache handles DELETE /v1/cache.
func (h *Handler) ClearCache(c *gin.Context) {
	h.formatter.ClearCache()
	c.Status(http.StatusNoContent)
}

// GetViewport handles GET /v1/viewport.
func (h *Handler) GetViewport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"viewport":    h.formatter.Viewport(),
		"screen_size": h.formatter.ScreenSize(),
	})
}

// PostViewport handles POST /v1/viewport. The change is debounced, so the
// response only acknowledges it.
func (h *Handler) PostViewport(c *gin.Context) {
	var req viewportRequest
	if !h.bind(c, &req) {
		return
	}
	v := eventfmt.Viewport{Width: req.Width, Height: req.Height}
	c.JSON(http.StatusAccepted, gin.H{
		"accepted":    h.formatter.Resize(v),
		"screen_size": eventfmt.ScreenSizeFor(v.Width),
	})
}
