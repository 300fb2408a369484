package entry

import (
	"errors"
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
)

// VersionError reports a document or stored occurrence whose Data
// Dictionary version differs from the Entry's.
type VersionError struct {
	IDS  string
	Want ir.DDVersion
	Got  ir.DDVersion
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s: data dictionary version %s, entry uses %s", e.IDS, e.Got, e.Want)
}

// IsVersionError reports whether err is a VersionError.
func IsVersionError(err error) bool {
	var ve *VersionError
	return errors.As(err, &ve)
}
