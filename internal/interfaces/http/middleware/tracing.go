package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxRequestIDLength caps request id header values before they reach
	// trace attributes.
	MaxRequestIDLength = 128
	// MaxTenantIDLength caps tenant id header values.
	MaxTenantIDLength = 64
)

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig controls the otelgin wrapper.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig enables tracing under the service's default name.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "callcrm-backend",
		Enabled:     true,
	}
}

// Tracing wraps requests in otelgin spans with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin and enriches each span with request_id,
// tenant_id and subject_id. Span names follow otelgin's "METHOD route"
// convention.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	base := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
	}
}

func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := getRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if tenantID := getTenantID(c); tenantID != "" {
		span.SetAttributes(attribute.String("tenant_id", tenantID))
	}
	if subjectID := getSubjectID(c); subjectID != "" {
		span.SetAttributes(attribute.String("subject_id", subjectID))
	}
}

// getRequestID prefers the id set by the RequestID middleware, falling back
// to the header with a length cap.
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// getTenantID prefers the JWT claim. The X-Tenant-ID header is only accepted
// when it parses as a UUID, so unauthenticated callers cannot inject
// arbitrary strings into traces.
func getTenantID(c *gin.Context) string {
	if id := c.GetString(ContextKeyTenantID); id != "" {
		return id
	}
	if headerID := c.GetHeader("X-Tenant-ID"); headerID != "" && isValidTenantID(headerID) {
		return headerID
	}
	return ""
}

func isValidTenantID(tenantID string) bool {
	return len(tenantID) <= MaxTenantIDLength && uuidRegex.MatchString(tenantID)
}

func getSubjectID(c *gin.Context) string {
	return c.GetString(ContextKeySubjectID)
}

// statusMessage maps an HTTP error status to a span status description.
func statusMessage(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "Internal Server Error"
	case statusCode == http.StatusUnauthorized:
		return "Unauthorized"
	case statusCode == http.StatusForbidden:
		return "Forbidden"
	case statusCode == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}

// SpanErrorMarker marks the active span as errored when the response status
// is 4xx or 5xx. Place it after the Tracing middleware.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, statusMessage(statusCode))
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}

// TracingAttributeInjector re-enriches the span once authentication has run,
// so tenant and subject attributes are present on authenticated routes. Place
// it after both Tracing and the JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
		c.Next()
	}
}
