package emit

import "github.com/tsawler/docshift/model"

// Column-count thresholds for page shape selection. Word-like tables
// flip to landscape past landscapeColumns; spreadsheet exports
// additionally escalate the paper tier past widesheetColumns.
const (
	landscapeColumns = 8
	widesheetColumns = 15
)

// SelectPageSetup chooses page size and orientation for a paginated
// target from the content's column count. It is a pure function of
// content shape, selected once per output document (or once per sheet
// for spreadsheet sources), and is not caller-configurable beyond the
// conversion type itself.
func SelectPageSetup(columns int, spreadsheet bool) model.PageSetup {
	setup := model.PageSetup{Paper: model.PaperLetter}
	if columns > landscapeColumns {
		setup.Landscape = true
	}
	if spreadsheet && columns > widesheetColumns {
		setup.Paper = setup.Paper.Escalate()
	}
	return setup
}
