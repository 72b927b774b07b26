// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - GroupSource: Paginated listing of visible groups
//   - ProjectSource: Paginated listing of the projects in one group
//   - CodeSearcher: Blob search inside one project
//   - ConfigStore: Persistent application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Observer: Receives enumeration and search events (metrics).
//   - ConfigReader: Overrides configuration values (environment).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
