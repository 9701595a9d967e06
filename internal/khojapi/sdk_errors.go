package khojapi

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

var (
	ErrNoServerURL  = errors.New("khojapi: server url missing")
	ErrFileNotFound = errors.New("khojapi: file not found")
	ErrNotIndexed   = errors.New("khojapi: server did not acknowledge the file")
)

// handleAPIError folds the transport error and the HTTP error state into a
// single error with operation context.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	// got a response, but the api returned an error
	if resp.IsErrorState() {
		return fmt.Errorf("api error: %s status=%d %s", operation, resp.StatusCode, resp.String())
	}

	return nil
}
