// Package store persists serialized lists of records under fixed keys.
//
// A Backend is one persistence implementation: the local SQLite document
// table, a remote MongoDB collection, a remote Redis keyspace, or an
// in-memory map used by tests. Fallback picks between a remote and a local
// backend on every read and write, and List adds the JSON codec on top.
//
// # Failure Model
//
//   - Load on a List never fails. Absent keys and malformed payloads both
//     yield an empty list; malformed payloads are logged.
//   - A remote backend that cannot be reached is not an error. Fallback
//     serves the local backend instead.
//   - Remote write failures are logged and dropped.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
