// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The search pipeline is strictly sequential at the top level:
// GroupResolver, then ProjectEnumerator, then SearchDispatcher.
// Concurrency exists only inside the dispatcher, which searches
// projects in fixed-size batches and waits for each batch to finish
// before starting the next.
package services
