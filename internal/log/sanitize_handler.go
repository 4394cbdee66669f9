package log

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

// MaskValue replaces sensitive attribute values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked. They
// cover the header and credential surface the engine actually logs.
var sensitiveKeys = map[string]bool{
	"cookie":              true,
	"cookies":             true,
	"set-cookie":          true,
	"authorization":       true,
	"proxy-authorization": true,
	"password":            true,
	"token":               true,
	"secret":              true,
}

// SanitizeHandler wraps an slog.Handler and masks sensitive attribute
// values before delegating. It works with any underlying handler, so the
// CLI can keep its text or JSON output while crawl logs stay shareable.
type SanitizeHandler struct {
	handler slog.Handler
}

// NewSanitizeHandler creates a SanitizeHandler wrapping handler. A nil
// handler falls back to slog.Default's.
func NewSanitizeHandler(handler slog.Handler) *SanitizeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizeHandler{handler: handler}
}

// Enabled implements slog.Handler.
func (h *SanitizeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and delegates.
func (h *SanitizeHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs implements slog.Handler; attributes are masked before being
// attached.
func (h *SanitizeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizeHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup implements slog.Handler.
func (h *SanitizeHandler) WithGroup(name string) slog.Handler {
	return &SanitizeHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr masks one attribute, recursing into groups.
func (h *SanitizeHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	// URLs with embedded credentials (typically proxy settings) keep
	// the location but lose the userinfo.
	if a.Value.Kind() == slog.KindString {
		if masked, ok := maskURLCredentials(a.Value.String()); ok {
			return slog.String(a.Key, masked)
		}
	}
	return a
}

// maskURLCredentials redacts the userinfo of a URL-shaped value. The
// second return is false when the value is not a URL carrying
// credentials.
func maskURLCredentials(value string) (string, bool) {
	if !strings.Contains(value, "://") || !strings.Contains(value, "@") {
		return "", false
	}
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return "", false
	}
	masked := *u
	masked.User = nil
	return u.Scheme + "://" + MaskValue + "@" + strings.TrimPrefix(masked.String(), u.Scheme+"://"), true
}
