package control

import "errors"

var errUnsupportedPlatform = errors.New("control: named pipes are only available on windows")
