// Package ipc holds the named resources shared by the worker processes of
// one run: memory segments and a binary semaphore, both living as files in a
// shared-memory directory (normally /dev/shm).
//
// Every resource goes through the same lifecycle. The parent creates it
// before any worker is spawned, each worker attaches its own handle and
// detaches it before exiting, and the parent unlinks the name after all
// workers have been reaped. A run that is killed midway leaves the names
// behind; the next Create reuses and resets them.
//
// The semaphore is an exclusive flock(2) on its file. flock conflicts between
// separate open file descriptions, so every process (or goroutine holding its
// own handle) is excluded from the others.
package ipc
