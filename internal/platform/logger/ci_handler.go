package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"}

// isInCIEnvironment reports whether a known CI marker variable is set.
func isInCIEnvironment() bool {
	for _, name := range ciEnvVars {
		if v := os.Getenv(name); v != "" && v != "false" && v != "0" {
			return true
		}
	}
	return false
}

// getCIMetadata collects identifying CI details present in the environment.
func getCIMetadata() map[string]string {
	metadata := make(map[string]string)
	for attr, env := range map[string]string{
		"ci_provider_github": "GITHUB_ACTIONS",
		"ci_run_id":          "GITHUB_RUN_ID",
		"ci_workflow":        "GITHUB_WORKFLOW",
		"ci_commit":          "GITHUB_SHA",
		"ci_ref":             "GITHUB_REF",
		"ci_job":             "CI_JOB_ID",
	} {
		if v := os.Getenv(env); v != "" {
			metadata[attr] = v
		}
	}
	return metadata
}

// CIHandler wraps a JSON handler and adds CI metadata to every record.
type CIHandler struct {
	handler  slog.Handler
	metadata []slog.Attr
}

// NewCIHandler creates a CIHandler writing JSON records to out.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	handlerOpts := &slog.HandlerOptions{}
	if opts != nil {
		copied := *opts
		handlerOpts = &copied
	}

	meta := getCIMetadata()
	attrs := make([]slog.Attr, 0, len(meta))
	for k, v := range meta {
		attrs = append(attrs, slog.String(k, v))
	}

	return &CIHandler{
		handler:  slog.NewJSONHandler(out, handlerOpts),
		metadata: attrs,
	}
}

// Enabled implements slog.Handler.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CIHandler{handler: h.handler.WithAttrs(attrs), metadata: h.metadata}
}

// WithGroup implements slog.Handler.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	return &CIHandler{handler: h.handler.WithGroup(name), metadata: h.metadata}
}

// Handle implements slog.Handler.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	enhanced := record.Clone()
	enhanced.AddAttrs(h.metadata...)
	return h.handler.Handle(ctx, enhanced)
}
