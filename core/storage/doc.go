// Package storage provides the object storage client for book cover images.
//
// It wraps the MinIO client behind a narrow interface so feature services can
// be tested against a mock (see the mocks subpackage). Covers are stored under
// covers/<bookID>; the catalog service owns the object naming.
package storage
