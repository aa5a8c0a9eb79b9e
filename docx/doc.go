// Package docx reads Word documents into the document model.
//
// DOCX carries explicit structure, so no geometric reconstruction is
// needed: paragraphs, runs, and tables map directly onto model elements.
// Block order follows the document body; synthetic vertical positions
// preserve that order through the position-sorted page invariant.
package docx
