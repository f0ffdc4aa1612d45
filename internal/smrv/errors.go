package smrv

import "errors"

var errUnsupportedPlatform = errors.New("shared-memory ring transport requires windows")
