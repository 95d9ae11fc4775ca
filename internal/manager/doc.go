// Package manager owns the lifecycle of the single served model and
// coordinates every call into it. It is structured into small files by
// concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults.
//   - types.go: lifecycle State.
//   - errors.go: error types and helpers (IsTooBusy, IsNotReady, IsBadJob).
//   - initialize.go: the one-shot unloaded -> loading -> ready|error transition.
//   - admission.go: optional bounded acquire/release of prediction slots.
//   - predict.go: validate-then-predict entry point with panic recovery.
//   - job.go: file jobs (read inputs from a directory, write results).
//   - drain.go: reject new work and wait for in-flight calls on shutdown.
//   - status_report.go: Status/Describe reporting helpers.
//   - events.go, eventpub_*.go: lifecycle event publishing.
//
// The model's own state is never touched here; the Manager only sequences
// calls so that Initialize happens-before every Validate and Predict.
package manager
