package qamatch

import "errors"

// ErrEncoderNameRequired is returned when a custom token embedder has neither
// a WithEncoderName name nor a Fingerprint method.
var ErrEncoderNameRequired = errors.New("token encoder needs a name")
