package logging

import "log/slog"

// Common structured log field keys.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"
	FieldSession    = "session"
	FieldSeed       = "seed"
	FieldFixture    = "fixture"
	FieldMatchday   = "matchday"
	FieldRound      = "round"
	FieldTeams      = "teams"
	FieldCount      = "count"
	FieldError      = "error"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}
