package vector

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store using brute-force cosine search.
// Namespaces are created lazily on first write. Records keep their
// insertion order, which clustering relies on for reproducibility.
type MemoryStore struct {
	dimensions int
	namespaces map[string]*namespaceData
	mu         sync.RWMutex
}

type namespaceData struct {
	records []Record
	byID    map[string]int
}

// NewMemoryStore creates a store for vectors of the given dimension.
func NewMemoryStore(dimensions int) (*MemoryStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryStore{
		dimensions: dimensions,
		namespaces: make(map[string]*namespaceData),
	}, nil
}

// Dimensions returns the configured vector dimension.
func (m *MemoryStore) Dimensions() int {
	return m.dimensions
}

func (m *MemoryStore) namespace(name string) *namespaceData {
	ns, ok := m.namespaces[name]
	if !ok {
		ns = &namespaceData{byID: make(map[string]int)}
		m.namespaces[name] = ns
	}
	return ns
}

// Upsert inserts or replaces the vector for id. A replaced record keeps its
// original position in the namespace.
func (m *MemoryStore) Upsert(ctx context.Context, namespace, id string, vec []float32, metadata map[string]string) (int, error) {
	if len(vec) != m.dimensions {
		return 0, dimensionError(len(vec), m.dimensions)
	}
	cp := make([]float32, m.dimensions)
	copy(cp, vec)
	rec := Record{ID: id, Vector: cp, Metadata: metadata}

	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.namespace(namespace)
	if idx, ok := ns.byID[id]; ok {
		ns.records[idx] = rec
	} else {
		ns.byID[id] = len(ns.records)
		ns.records = append(ns.records, rec)
	}
	return 1, nil
}

// Fetch returns the record for id, or nil when the namespace or id is absent.
func (m *MemoryStore) Fetch(ctx context.Context, namespace, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.namespaces[namespace]
	if !ok {
		return nil, nil
	}
	idx, ok := ns.byID[id]
	if !ok {
		return nil, nil
	}
	rec := ns.records[idx]
	return &rec, nil
}

// Query returns up to topK matches ordered by descending cosine similarity.
// Ties keep insertion order.
func (m *MemoryStore) Query(ctx context.Context, namespace string, vec []float32, topK int) ([]Match, error) {
	if len(vec) != m.dimensions {
		return nil, dimensionError(len(vec), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.namespaces[namespace]
	if !ok || topK <= 0 || len(ns.records) == 0 {
		return nil, nil
	}
	matches := make([]Match, len(ns.records))
	for i, rec := range ns.records {
		matches[i] = Match{ID: rec.ID, Score: Cosine(vec, rec.Vector), Metadata: rec.Metadata}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK], nil
}

// All returns every record in the namespace in insertion order.
func (m *MemoryStore) All(ctx context.Context, namespace string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.namespaces[namespace]
	if !ok {
		return nil, nil
	}
	out := make([]Record, len(ns.records))
	copy(out, ns.records)
	return out, nil
}

// Count returns the number of vectors in the namespace.
func (m *MemoryStore) Count(ctx context.Context, namespace string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.namespaces[namespace]
	if !ok {
		return 0, nil
	}
	return len(ns.records), nil
}

// Save persists the store to path. Directory is created if needed.
// Format: dimension (4), namespace count (4), then per namespace: nameLen (4),
// name, record count (4), then per record: idLen (4), id, metaLen (4),
// metadata JSON, vector (dimension*4 bytes). All integers little-endian.
func (m *MemoryStore) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, uint32(m.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	names := make([]string, 0, len(m.namespaces))
	for name := range m.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	if err := binary.Write(f, binary.LittleEndian, uint32(len(names))); err != nil {
		return fmt.Errorf("write namespace count: %w", err)
	}
	for _, name := range names {
		ns := m.namespaces[name]
		if err := writeBytes(f, []byte(name)); err != nil {
			return fmt.Errorf("write namespace name: %w", err)
		}
		if err := binary.Write(f, binary.LittleEndian, uint32(len(ns.records))); err != nil {
			return fmt.Errorf("write record count: %w", err)
		}
		for _, rec := range ns.records {
			if err := writeBytes(f, []byte(rec.ID)); err != nil {
				return fmt.Errorf("write id: %w", err)
			}
			meta, err := json.Marshal(rec.Metadata)
			if err != nil {
				return fmt.Errorf("marshal metadata: %w", err)
			}
			if err := writeBytes(f, meta); err != nil {
				return fmt.Errorf("write metadata: %w", err)
			}
			if _, err := f.Write(float32SliceToBytes(rec.Vector)); err != nil {
				return fmt.Errorf("write vector: %w", err)
			}
		}
	}
	return nil
}

// Load replaces the store contents from path. Dimensions must match.
// If the file does not exist, no error is returned and the store is unchanged.
func (m *MemoryStore) Load(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	var dim uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	if int(dim) != m.dimensions {
		return fmt.Errorf("%w: file has %d, store expects %d", ErrDimensionMismatch, dim, m.dimensions)
	}
	var nsCount uint32
	if err := binary.Read(f, binary.LittleEndian, &nsCount); err != nil {
		return fmt.Errorf("read namespace count: %w", err)
	}

	namespaces := make(map[string]*namespaceData, nsCount)
	vecBuf := make([]byte, m.dimensions*4)
	for i := uint32(0); i < nsCount; i++ {
		name, err := readBytes(f)
		if err != nil {
			return fmt.Errorf("read namespace name: %w", err)
		}
		var recCount uint32
		if err := binary.Read(f, binary.LittleEndian, &recCount); err != nil {
			return fmt.Errorf("read record count: %w", err)
		}
		ns := &namespaceData{byID: make(map[string]int, recCount)}
		for j := uint32(0); j < recCount; j++ {
			id, err := readBytes(f)
			if err != nil {
				return fmt.Errorf("read id: %w", err)
			}
			metaRaw, err := readBytes(f)
			if err != nil {
				return fmt.Errorf("read metadata: %w", err)
			}
			var meta map[string]string
			if err := json.Unmarshal(metaRaw, &meta); err != nil {
				return fmt.Errorf("unmarshal metadata: %w", err)
			}
			if _, err := io.ReadFull(f, vecBuf); err != nil {
				return fmt.Errorf("read vector: %w", err)
			}
			ns.byID[string(id)] = len(ns.records)
			ns.records = append(ns.records, Record{
				ID:       string(id),
				Vector:   bytesToFloat32Slice(vecBuf),
				Metadata: meta,
			})
		}
		namespaces[string(name)] = ns
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces = namespaces
	return nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
