// Package persist serializes navigation-stack contents and stores the
// resulting snapshots.
//
// The engine does not define a wire format for routes themselves: each
// entry contributes its route name and identity arguments, and a Registry
// maps names back to decode functions on restore. The Registry is an
// explicit object handed to Restore, never a process-wide table, so
// multiple independent engines can coexist in one process.
//
// Stores persist opaque snapshot bytes under a key. MemoryStore keeps them
// in-process; S3Store writes them to an S3 bucket.
package persist
