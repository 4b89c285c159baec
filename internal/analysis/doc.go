// Package analysis composes the remote raster expressions terrareport
// renders and exports: land-cover masks, NDVI, NDVI change and gap-filled
// land surface temperature, clipped to a country boundary.
//
// Build only constructs requests. Evaluation, reprojection and storage all
// happen in the remote service.
package analysis
