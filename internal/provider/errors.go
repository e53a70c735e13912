package provider

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network attempt when a provider
// credential is absent. Distinct from transport failures so the gateway can
// report a configuration problem instead of a flaky upstream.
var ErrMissingAPIKey = errors.New("news api key is not configured")

// UpstreamError describes a single failed call to an external provider:
// non-2xx status, timeout, or transport failure. Status is 0 when the
// request never produced an HTTP response.
type UpstreamError struct {
	Kind    string
	AssetID string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.AssetID != "" {
		return fmt.Sprintf("upstream %s error for %s (status %d): %s", e.Kind, e.AssetID, e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %s error (status %d): %s", e.Kind, e.Status, e.Message)
}
