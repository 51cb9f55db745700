package watch

import (
	"errors"
	"io"
	"strings"

	"github.com/gobwas/ws/wsutil"
)

// IsErrClosed checks for errors caused by a regularly closed connection.
func IsErrClosed(err error) bool {
	if err == nil {
		return false
	}
	var cerr wsutil.ClosedError
	if errors.As(err, &cerr) {
		return true
	}
	return errors.Is(err, io.EOF) || strings.Contains(err.Error(), "use of closed network connection")
}
