package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Label keys attached to profiles. Keeping the vocabulary fixed keeps
// Pyroscope cardinality under control.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelTenantID   = "tenant_id"
	ProfilingLabelOperation  = "operation"
	ProfilingLabelRegion     = "region"
)

// MaxLabelValueLength caps label values before they reach Pyroscope.
const MaxLabelValueLength = 128

// highCardinalityLabels are per-request or per-entity identifiers that must
// never become profile labels. tenant_id is deliberately absent: tenant
// counts stay low enough to slice profiles by.
var highCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"lead_id":    true,
	"call_id":    true,
	"trace_id":   true,
	"span_id":    true,
	"session_id": true,
}

// WithProfilingLabels runs fn with the given labels attached to any samples
// the profiler takes while it executes. Labels are sanitized first; with
// nothing left after sanitizing, fn runs unlabeled. The input map is copied,
// so callers may reuse it.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// OperationLabels builds the label set for a named service operation,
// merging in any extra labels.
func OperationLabels(operation string, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(extra)+1)
	labels[ProfilingLabelOperation] = operation
	maps.Copy(labels, extra)
	return labels
}

// sanitizeLabels turns a label map into the flat key-value slice pyroscope
// expects. Empty entries, high-cardinality keys and malformed keys are
// dropped, long values truncated. Keys are sorted so output is stable.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if key == "" || value == "" || highCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		cleaned := sanitizeLabelKey(key)
		if cleaned == "" {
			continue
		}
		pairs = append(pairs, cleaned, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases the key and strips everything outside
// [a-z0-9_], mapping spaces and dashes to underscores first.
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			out = append(out, c)
		}
	}
	return string(out)
}
