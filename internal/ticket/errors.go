package ticket

import "errors"

var ErrMissingRoute = errors.New("missing_route")
