// Package file provides the TOML-backed configuration store.
//
// Settings live in ~/.gitlab-search/config.toml unless another directory
// is given. The file is written with 0600 permissions because it holds
// the access token.
package file
