// Package pipeline runs an analysis output through a sequence of steps.
//
// A Job is one output of an analysis: a year, or the first/last pair of
// an ndvi-change. Steps resolve the country boundary, compose the raster
// expression and then render, export or reduce it. BatchProcessor runs
// one pipeline per job concurrently, bounded by errgroup, and returns the
// jobs in input order.
//
// Remote work stays asynchronous behind the Earth Engine client: an
// ExportStep returns once the job was accepted.
package pipeline
