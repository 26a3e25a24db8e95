// Package session manages the list of chat sessions and which one is active.
//
// # Overview
//
// A Session is one conversation thread: an id, a title, an append-only list
// of messages and two timestamps. The Manager owns the in-memory list and the
// active pointer and writes the whole list back through a Repository after
// every mutation.
//
// # Lifecycle
//
// 1. Initialize: the Manager loads a Snapshot from the Repository once.
//   - Sessions with no messages are dropped so an abandoned chat does not
//     come back on the next start.
//   - If nothing is left, one empty "New conversation" session is created.
//   - The first session becomes active. Nothing is saved yet.
//
// 2. Create: a new empty session is prepended and made active, so the list
// reads newest first.
//
// 3. Delete: the session is removed. If it was active, the first remaining
// session becomes active; if none remain a fresh empty one takes its place.
// The list is never empty once initialized.
//
// # Failure semantics
//
// Unknown ids are ignored rather than reported, and every call made before
// Initialize is a no-op. Store errors are logged and never reach the caller.
package session
