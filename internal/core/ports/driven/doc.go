// Package driven defines the driven ports (secondary adapters' interfaces)
// for catsync. These are the interfaces the core depends on to reach
// infrastructure: durable sync state, the Drive listing/fetch surface,
// and the catalog HTTP surface. Implementations live under
// internal/adapters/driven and internal/connectors.
package driven
