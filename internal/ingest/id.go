package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newImportID builds a synthetic transaction id for an imported row:
// source tag, import timestamp, row index, and a random suffix. Unique within
// and across import runs without a central sequence.
func newImportID(source string, rowIndex int) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s_%d_%d_%s", source, time.Now().UnixMilli(), rowIndex, suffix)
}
