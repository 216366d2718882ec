/*
Package lifecycle runs one request of a workflow through the shared
validate, mark-busy, call, resolve and clear-busy sequence.

	Idle -> Validating -> (Rejected | Busy) -> (Succeeded | Failed) -> Idle

A Lifecycle belongs to exactly one workflow instance. At most one request is
in flight per Lifecycle: a Run that starts while another is still running
returns ErrBusy immediately, without validating, calling the remote service
or touching workflow state. The in-flight request is never cancelled in favour
of the new one.

Every rejection and failure is surfaced through the workflow's
feedback.Channel with a human readable message (see Message).
*/
package lifecycle
