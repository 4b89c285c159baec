// Package earthengine is a thin client for the Earth Engine REST API.
//
// Raster processing never happens locally. Callers compose an expression
// graph with the typed handles (Image, ImageCollection, Geometry, Filter,
// FeatureCollection, Reducer) and hand it to a Client, which serializes
// the graph and submits it. Exports return as soon as the server accepts
// them; GetOperation performs a single explicit status check.
package earthengine
