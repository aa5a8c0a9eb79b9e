// Package xlsx reads Excel workbooks into the document model.
//
// Each sheet becomes one page holding a single table. Per-cell fills and
// fonts are carried through so emitters can preserve explicit styling
// over their default decoration rules. Sheets are capped at
// model.MaxSheetRows rows; the cap truncates rather than fails.
package xlsx
