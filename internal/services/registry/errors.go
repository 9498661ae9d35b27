package registry

import "errors"

// ErrIDExhausted is returned when no unused room id could be generated
var ErrIDExhausted = errors.New("could not generate a unique room id")
