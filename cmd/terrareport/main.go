// Package main provides the entry point for the terrareport CLI.
//
// terrareport computes vegetation and land surface temperature rasters for
// country regions on a remote geospatial service, fetches or exports the
// results, and assembles rendered thumbnails into a captioned PDF report.
//
// Usage:
//
//	terrareport thumbnails <analysis>
//	terrareport export <analysis>
//	terrareport report --analysis <analysis> -o report.pdf
//
// See --help for all available options.
package main

func main() {
	Execute()
}
