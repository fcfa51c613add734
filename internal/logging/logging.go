// Package logging builds the slog loggers shared by the service binaries and
// scrubs credentials out of values before they are logged.
package logging

import (
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// New returns a logger writing to w. format is "json" or "text"; anything
// else falls back to text.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h)
}

// ParseLevel converts string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)
	// user:secret@tcp(host) as produced by go-sql-driver/mysql DSNs.
	mysqlCredPattern = regexp.MustCompile(`([^\s:/@]+):[^\s@]*@(tcp|unix)\(`)
	// scheme://user:secret@ embedded in free text.
	urlCredPattern = regexp.MustCompile(`(://[^\s:/@]*):[^\s/@]+@`)
)

// RedactURL strips the password from a URL-shaped DSN.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Opaque != "" {
		return Redact(raw)
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	q := parsed.Query()
	if q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

// Redact hides credentials in key=value, mysql style and URL style DSNs.
func Redact(s string) string {
	s = mysqlCredPattern.ReplaceAllString(s, "$1:redacted@$2(")
	s = urlCredPattern.ReplaceAllString(s, "$1:redacted@")
	return passwordPattern.ReplaceAllString(s, "password=redacted")
}

// SanitizeError renders err with every secret replaced by its redacted form.
func SanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := RedactURL(secret)
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return Redact(msg)
}
