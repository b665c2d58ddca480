package hub

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned once the hub or the subscription is closed and
	// nothing more can be read.
	ErrClosed = errors.New("hub: closed")

	// ErrEmpty is returned by TryRecv when no value is pending.
	ErrEmpty = errors.New("hub: no value pending")

	// ErrLagged is matched by every *LagError.
	ErrLagged = errors.New("hub: subscription lagged")
)

// LagError reports that a subscription fell so far behind that values it
// had not read yet were overwritten. The cursor has already been moved to
// the oldest retained value; the next receive continues from there.
type LagError struct {
	Skipped uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("hub: subscription lagged, %d values skipped", e.Skipped)
}

// Is makes errors.Is(err, ErrLagged) hold for any *LagError.
func (e *LagError) Is(target error) bool {
	return target == ErrLagged
}
