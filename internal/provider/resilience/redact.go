package resilience

import (
	"errors"
	"net/url"
	"strings"
)

const redacted = "REDACTED"

// secretParams are query parameters that carry upstream credentials.
var secretParams = []string{"Authorization", "api_key"}

// RedactError masks credential query parameters in the URL carried by a
// *url.Error anywhere in err's chain. Other errors are returned unchanged.
func RedactError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	urlErr.URL = RedactURL(urlErr.URL)
	return err
}

// RedactURL returns rawURL with the values of credential query parameters
// replaced. Unparseable input is cut at the query string.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		before, _, _ := strings.Cut(rawURL, "?")
		return before
	}
	if u.RawQuery == "" {
		return rawURL
	}

	query := u.Query()
	changed := false
	for _, key := range secretParams {
		if query.Has(key) {
			query.Set(key, redacted)
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = query.Encode()
	return u.String()
}
