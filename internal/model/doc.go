// Package model defines the value types shared by terrareport's packages.
//
// The main types are:
//   - Product, Source, MaskClass, LandCover: what an analysis computes and how it masks
//   - Region, DateWindow: where and when
//   - VisParams, ExportParams: validated rendering and export settings
//   - ExportTask: a submitted export job as recorded in the local ledger
//   - Captions, RegionStats: report inputs and statistics
//
// The package has no dependencies on other internal packages so that every
// layer (remote client, pipeline, report) can share these types.
package model
