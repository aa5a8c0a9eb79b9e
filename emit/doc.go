// Package emit renders the document model into target formats.
//
// Each emitter walks a [model.Document] in element order and translates
// headings, paragraphs, lists, tables, and images into the target's
// native constructs. Table decoration (header accent, row alternation,
// grid borders, proportional column widths) is shared across emitters in
// tablestyle.go so every output format renders tables the same way;
// explicitly extracted cell styling always wins over those defaults.
//
// Paged targets pick their page shape through [SelectPageSetup] before
// rendering: wide tables flip to landscape, and very wide spreadsheet
// exports escalate the paper tier.
package emit
