// Package lock serializes changelog transactions per log directory with an
// exclusive advisory lock, so two callers can never pop the same top record
// set or interleave a pop with a concurrent redo purge.
package lock

// LockFileName is the lock file created inside a log directory. Record
// identifier parsing rejects the name, so scans never mistake it for a
// record.
const LockFileName = "LOCK"
