package wrap

import "github.com/pkg/errors"

// ErrClosed is returned by Send/Recv operations once the channel has
// reached a terminal state (all producers released, the consumer
// released, or - for oneshot - the value was already delivered or the
// sender was released without sending).
var ErrClosed = errors.New("chanconsole: channel closed")
