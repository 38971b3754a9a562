package integrations

import "errors"

var ErrUnknownIntegration = errors.New("unknown integration")
