package output

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"vittlify/internal/domain/entity"
)

const (
	// identifierColumnFloor keeps wrapped columns readable on very narrow terminals.
	identifierColumnFloor = 8

	commentsMarker   = "+ "
	noCommentsMarker = "  "
)

// Cell is one display cell. Text is already wrapped; styling happens at render time.
type Cell struct {
	Text  string
	Role  Role
	Muted bool
}

// Row is an ordered sequence of cells.
type Row []Cell

// RowOptions selects the optional columns of a row.
type RowOptions struct {
	// List is the list containing the record; its categories decide whether a
	// category column can be shown.
	List            *entity.Record
	IncludeComments bool
	IncludeCategory bool
}

// FormatRow converts one record into a row. Columns are identifier, optional
// category, name and optional comments; name and comments are wrapped to the
// per-column share of totalWidth. Wrapped name lines are indented past the marker.
func FormatRow(record entity.Record, opts RowOptions, totalWidth int) Row {
	withCategory := opts.IncludeCategory && opts.List.HasCategories()
	withComments := opts.IncludeComments && record.HasComments()

	columns := 2
	if withCategory {
		columns++
	}
	if withComments {
		columns++
	}
	width := ColumnWidth(totalWidth, columns)

	marker := noCommentsMarker
	if record.HasComments() {
		marker = commentsMarker
	}

	row := Row{{Text: record.ShortGUID(), Role: RoleIdentifier, Muted: record.Done}}
	if withCategory {
		row = append(row, Cell{Text: record.CategoryName, Role: RoleCategory, Muted: record.Done})
	}
	name := marker + strings.ReplaceAll(wrap(record.Name, width-len(marker)), "\n", "\n"+noCommentsMarker)
	row = append(row, Cell{Text: name, Role: RoleName, Muted: record.Done})
	if withComments {
		row = append(row, Cell{Text: wrap(record.Comments, width), Role: RoleComments, Muted: record.Done})
	}

	return row
}

// ColumnWidth divides the usable terminal width evenly across columns and caps the result.
func ColumnWidth(totalWidth, columns int) int {
	if columns < 1 {
		columns = 1
	}
	width := (totalWidth - TerminalMargin) / columns
	if width > MaxColumnWidth {
		width = MaxColumnWidth
	}
	if width < identifierColumnFloor {
		width = identifierColumnFloor
	}
	return width
}

func wrap(text string, width int) string {
	return wordwrap.WrapString(text, uint(width))
}
