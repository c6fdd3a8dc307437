// Package repository holds the entity structs and their SQL access methods.
// Each entity file declares its own sentinel errors next to the queries that
// raise them; this file keeps the helpers every repository shares.
package repository

import "strings"

// isDuplicate reports whether err is a MySQL duplicate-entry violation
// (error 1062) on a unique index.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
