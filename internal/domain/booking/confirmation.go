package booking

import (
	"strings"

	"github.com/google/uuid"
)

const confirmationPrefix = "BK-"

// NewConfirmationCode produces the human-facing booking reference, e.g.
// "BK-3F9A21C4". Collision resistance comes from the random suffix; uniqueness
// is still enforced by the store's unique constraint, with a bounded
// regenerate-and-retry on collision.
func NewConfirmationCode() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return confirmationPrefix + suffix
}
