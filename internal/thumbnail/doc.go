// Package thumbnail renders analysis rasters into PNG files on disk.
//
// A Fetcher registers a thumbnail with Earth Engine, downloads its pixels
// and writes them to <dir>/<stem>.png atomically. The resulting files are
// what the report builder consumes.
package thumbnail
