package session

import "errors"

// ErrExists is returned by Create when the id is taken.
var ErrExists = errors.New("net already exists")
