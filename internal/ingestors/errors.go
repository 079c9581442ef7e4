package ingestors

import (
	"fmt"

	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/svcerrors"
)

// LogTailer errors
const (
	codeLogOpenFailed = "ING_1000"

	codeInvalidLine = "ING_1001"
)

// errLogOpenFailed returns an error when the call log cannot be opened for tailing.
func errLogOpenFailed(path string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeLogOpenFailed, fmt.Sprintf("cannot open call log: %s", path), cause)
}
