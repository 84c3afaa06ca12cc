// Package storage defines the content-root file-system abstraction.
package storage

// Provider is the read-only view of the content root. The pipeline never
// writes: files change on disk through the user's editor, and a changed
// corpus is rebuilt from scratch.
type Provider interface {
	// List returns the slash-separated relative path of every eligible file
	// under the root, in deterministic walk order.
	List() ([]string, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
}
