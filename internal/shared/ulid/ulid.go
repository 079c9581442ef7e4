package ulid

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. Used for HTTP request IDs and for the
// analysis-cycle IDs that tie a published result bundle to its log lines.
var NewULID = func() string {
	return ulid.Make().String()
}
