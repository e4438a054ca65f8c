package storage

import "photoframe/internal/ports"

// Provider aliases ports.StorageProvider for call sites that only wire it.
type Provider = ports.StorageProvider
