package pinyin

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for a bad delimiter or option name.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrMalformedResult is returned when the romanized text cannot be split into
// syllables. It wraps ErrInvalidArgument because the cause is the input.
var ErrMalformedResult = fmt.Errorf("%w: not valid pinyin", ErrInvalidArgument)
