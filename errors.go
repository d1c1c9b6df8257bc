package rasterkit

import "errors"

// ErrInvalidParameter is returned when a transform or step is given an
// argument outside its domain (zero zoom factors, malformed step
// arguments, mismatched pixel counts). Match it with errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")
