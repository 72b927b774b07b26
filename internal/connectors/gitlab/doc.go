// Package gitlab is a client for the GitLab REST API (v4).
//
// It covers the three calls the search pipeline needs: listing groups,
// listing the projects of a group and searching the blobs of a project.
// The client authenticates with a personal access token, sent either in
// the PRIVATE-TOKEN header or as an OAuth2 bearer token, throttles
// requests proactively and retries 429 responses with exponential
// backoff.
//
// Every request carries a unique X-Request-Id so server logs can be
// correlated with --verbose output.
package gitlab
