// Package database provides the SQLite ledger behind terrareport.
//
// TaskDB stores:
//   - Export jobs submitted to Earth Engine, with the last state anyone asked for
//   - Region statistics computed by the stats command
//
// Export jobs finish remotely and asynchronously. The ledger only records
// what the service said at submission time or during an explicit
// `tasks --refresh`; it never polls.
//
// SQLite is driven through modernc.org/sqlite, which needs no cgo.
package database
