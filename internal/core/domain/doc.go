// Package domain defines the core business entities for gitlab-search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Group: A namespace holding projects
//   - Project: A repository whose file contents can be searched
//   - SearchCriteria: The term and filters sent to the remote search API
//   - ProjectSearchResults: The matches found in one project
//   - Config: Connection settings for a GitLab instance
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
