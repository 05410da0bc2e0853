// internal/store/store.go
package store

import "context"

// Top-level namespaces of the durable layout.
const (
	NamespaceServers      = "servers"
	NamespaceServerStatus = "serverStatus"
)

// Store is blob persistence keyed by (namespace, key).
// Implementations carry no domain knowledge: callers own serialization.
type Store interface {
	// Load returns the blob for key, or ok=false if absent.
	Load(ctx context.Context, namespace, key string) (blob []byte, ok bool, err error)

	// Save writes the blob for key, replacing any previous value.
	Save(ctx context.Context, namespace, key string, blob []byte) error

	// Delete removes the blob for key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, namespace, key string) error

	// List returns all key->blob pairs in a namespace.
	List(ctx context.Context, namespace string) (map[string][]byte, error)
}
