// Package liveness answers whether an OS process is still running.
//
// A Monitor owns a mutex-guarded snapshot of the processes it has been asked
// about. Callers refresh a PID immediately before querying it, or use Check to
// do both inside one critical section. The snapshot itself is never exposed.
//
// A process can still exit between a refresh and the decision made on its
// result; callers accept that window. On Linux zombie and dead process states
// count as exited, since a child of another process may not be reaped yet.
package liveness
