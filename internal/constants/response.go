package constants

// Standard response field keys. Error bodies are always a flat
// {"error": "<short string>"} object so the SPA can render them directly.
const (
	ResponseFieldError = "error"
	ResponseFieldOK    = "ok"
)

// BuildErrorResponse shapes the uniform error body.
func BuildErrorResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldError: message,
	}
}

// BuildOKResponse shapes the `{"ok": true}` acknowledgement body.
func BuildOKResponse() map[string]any {
	return map[string]any{
		ResponseFieldOK: true,
	}
}
