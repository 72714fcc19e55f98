package lang

import "errors"

// ErrNoLocale indicates the operating system did not report a locale.
var ErrNoLocale = errors.New("no system locale configured")
