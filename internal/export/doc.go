// Package export submits export-to-asset jobs and records them in the
// local ledger.
//
// Submission returns as soon as the service accepted the job. Completion
// happens remotely; Refresh asks the service once for the current state
// and stores the answer. There is no polling loop.
package export
