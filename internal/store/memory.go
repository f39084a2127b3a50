package store

// MemoryBackend is an in-process Backend. A non-zero capacity makes writes
// that would push the total size past it fail with ErrQuotaExceeded, which
// lets tests exercise the cleanup ladder without filling a disk.
type MemoryBackend struct {
	capacity int64
	blobs    map[string][]byte
}

func NewMemoryBackend(capacity int64) *MemoryBackend {
	return &MemoryBackend{
		capacity: capacity,
		blobs:    map[string][]byte{},
	}
}

func (backend *MemoryBackend) Read(key string) ([]byte, bool, error) {
	value, ok := backend.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

func (backend *MemoryBackend) Write(key string, value []byte) error {
	if backend.capacity > 0 {
		used, _ := backend.UsedBytes()
		if existing, ok := backend.blobs[key]; ok {
			used -= int64(len(key) + len(existing))
		}
		if used+int64(len(key)+len(value)) > backend.capacity {
			return ErrQuotaExceeded
		}
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	backend.blobs[key] = copied
	return nil
}

func (backend *MemoryBackend) Delete(key string) error {
	delete(backend.blobs, key)
	return nil
}

func (backend *MemoryBackend) UsedBytes() (int64, error) {
	var total int64
	for key, value := range backend.blobs {
		total += int64(len(key) + len(value))
	}
	return total, nil
}
