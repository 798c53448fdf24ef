// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the profile sync worker and anything else talking
// to sibling services.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
