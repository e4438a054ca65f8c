// Package ids generates prefixed identifiers for stored records.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns prefix_<uuid without dashes>, e.g. exp_3f2a....
func New(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
