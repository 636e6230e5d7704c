package dict

import (
	"database/sql"
	"errors"
	"io/fs"
)

// ErrDataUnavailable is returned when a source cannot locate its backing data.
var ErrDataUnavailable = errors.New("dictionary data unavailable")

// ErrInvalidSource is returned for an unknown loader kind or a data path that
// cannot hold a dictionary.
var ErrInvalidSource = errors.New("invalid dictionary source")

// IsDataUnavailable reports whether err means the dictionary data is missing.
// Works with the package's own ErrDataUnavailable, fs and database/sql errors.
func IsDataUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrDataUnavailable) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, sql.ErrNoRows)
}
