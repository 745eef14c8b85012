package provider

import "fmt"

// ConfigurationError reports an unsupported provider or model.
type ConfigurationError struct {
	Provider string
	Model    string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("configuration error for %s/%s: %s", e.Provider, e.Model, e.Reason)
	}
	return fmt.Sprintf("configuration error for %s: %s", e.Provider, e.Reason)
}

// AuthError reports a missing or rejected credential.
type AuthError struct {
	Provider string
	Reason   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error for %s: %s", e.Provider, e.Reason)
}

// UpstreamError reports a provider HTTP failure, including rate limiting.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}
