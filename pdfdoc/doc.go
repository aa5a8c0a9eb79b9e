// Package pdfdoc extracts positioned content from PDF files.
//
// Text spans come from the embedded text layer with font name, size, and
// position; scanned image-only PDFs yield no text. Embedded images are
// pulled out through pdfcpu into a process-scoped temporary directory
// that is removed before extraction returns. The positioned spans are run
// through table detection and layout reconstruction to produce the
// document model.
package pdfdoc
