// Package storage defines the persistence interfaces for command
// journaling.
//
// A Store keeps sessions and their journals: one Record per appended
// command, keyed by a dense 1-based sequence number, plus the session's
// revision and cursor pointers. The Codec translates commands to record
// payloads and back; packages that define their own command types
// register additional record kinds on it.
//
// Implementations live in subpackages: bolt persists to a BoltDB file,
// memory keeps everything in process for tests and journal-less runs.
//
// # Error Types
//
//   - ErrNotFound: a requested session or record is missing.
//   - ErrUnknownKind: a record kind with no registered decoder.
//   - ErrNotEncodable: a command type the codec cannot journal.
package storage
