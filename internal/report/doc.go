// Package report turns a directory of rendered thumbnails into a paginated
// PDF: one A4 page per image, a caption line and a white to green legend.
//
// Builder is synchronous and single threaded. The document is rendered in
// memory and only moved onto the output path once every page was drawn
// and the page count verified, so a failed run never leaves a partial file.
//
// The package also writes the markdown summary and the statistics CSV that
// accompany a report.
package report
