package parser

import (
	"errors"
	"fmt"
	"strings"

	"stockinsight/internal/model"
)

// ErrNoData is returned when a table has zero usable rows after filtering
// blanks. It is distinct from a mapping failure so callers can tell an empty
// file apart from an unmappable one.
var ErrNoData = errors.New("no usable data rows in table")

// RoleError is the unrecoverable mapping failure: a required role could not
// be resolved by any stage. The message names the role and lists every header
// that was examined so the user can fix their file.
type RoleError struct {
	Role    model.ColumnRole
	Headers []string
}

func (e *RoleError) Error() string {
	if len(e.Headers) == 0 {
		return fmt.Sprintf("cannot resolve required %q column: table has no headers and content heuristics found no candidate", e.Role)
	}
	return fmt.Sprintf("cannot resolve required %q column; examined headers: %s",
		e.Role, strings.Join(e.Headers, ", "))
}

// Diagnostics is the side-channel trace returned alongside results. It is
// advisory only: control flow never depends on it.
type Diagnostics struct {
	Warnings []string `json:"warnings,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// Warnf appends a formatted warning.
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Notef appends a formatted note.
func (d *Diagnostics) Notef(format string, args ...any) {
	d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
}

// Merge folds another diagnostics value into this one.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Notes = append(d.Notes, other.Notes...)
}

// Resolution is the full output of role resolution: the role map plus the
// trace of how each assignment was made.
type Resolution struct {
	Roles           *model.RoleMap
	ExaminedHeaders []string
	Diag            *Diagnostics
}
