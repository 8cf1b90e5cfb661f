// Package telemetry maintains the latest known state per wearable unit.
//
// The Store keeps exactly one Reading per unit id and merges partial updates
// field by field: a unit that reports only heart rate this second and only
// oxygen the next accumulates both. Safety status (OK/WARNING/ALERT) is
// recomputed by Classify on every write from the merged vitals and is never
// trusted from the caller.
//
// State is in-memory only. A restart forgets all readings; observing
// dashboards reconcile by pulling a fresh snapshot.
package telemetry
