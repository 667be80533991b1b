package emo

import (
	"fmt"
	"strings"
)

// ValidationError reports a structural problem with construction input:
// missing required columns, unequal column lengths, or an empty table.
// No manager is produced when it is returned.
type ValidationError struct {
	MissingColumns []string
	Reason         string
}

func (e *ValidationError) Error() string {
	if len(e.MissingColumns) > 0 {
		return fmt.Sprintf("invalid roster input: missing required columns: %s", strings.Join(e.MissingColumns, ", "))
	}
	return "invalid roster input: " + e.Reason
}

// InvalidArgumentError reports a caller-supplied parameter outside an
// operation's contract. It is returned before any computation happens.
type InvalidArgumentError struct {
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Param, e.Reason)
}
