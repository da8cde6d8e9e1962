// Package report implements persistence for build reports.
//
// The FileRepository stores the outcome of the last packaging run as JSON
// next to the produced artifacts and exposes a Repository interface the
// pipeline depends on. It also provides the artifact checksum helpers.
package report
