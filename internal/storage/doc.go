// Package storage publishes finished reports to Azure Blob Storage.
package storage
