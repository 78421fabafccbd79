// Package conv converts between Go's platform-sized int and the fixed-width
// integers of the package container, failing with ErrOverflow instead of
// silently truncating.
package conv
