package reconcile

import (
	"fmt"

	"fileshelf/internal/store"
)

// duplicateInSnapshot marks a category named twice in one snapshot when the
// first occurrence already exists in the store.
var duplicateInSnapshot = fmt.Errorf("%w: category repeated in snapshot", store.ErrDuplicateKey)
