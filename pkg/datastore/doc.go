// Package datastore holds the authoritative mapping of symlink names to link
// records and mirrors it to a JSON file under the output directory.
//
// The in-memory mapping is the owner of record. The JSON file is a cold-start
// recovery artifact: a missing or unreadable file loads as an empty mapping,
// and a failed write leaves memory authoritative until the next mutation
// retries it.
package datastore
