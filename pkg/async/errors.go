package async

import "errors"

// ErrTimeout is returned by AwaitWithTimeout when the future is not ready in time.
var ErrTimeout = errors.New("async.errors.timeout")
