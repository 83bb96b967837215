// Package project defines the identifiers accepted by the project endpoints.
//
// Project management is not implemented; these types exist so requests can
// be parsed and rejected cleanly.
package project
