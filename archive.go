package sparse

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/sparse/blobstore"
	"github.com/hupe1980/sparse/codec"
	"github.com/hupe1980/sparse/internal/compress"
	"github.com/hupe1980/sparse/internal/hash"
	"github.com/hupe1980/sparse/internal/resource"
	"golang.org/x/sync/errgroup"
)

const (
	archiveMagic   = "SPRS"
	archiveVersion = 1
)

// Archive persists arrays as named blobs in a blobstore.Store.
//
// Each blob is self-describing: a header records the format version, the
// compression kind, the codec name and a CRC32-C checksum of the encoded
// payload, so blobs stay readable after the archive's options change.
// An Archive is safe for concurrent use.
type Archive struct {
	store blobstore.Store
	opts  archiveOptions
	rc    *resource.Controller
}

// NewArchive creates an archive on top of store.
func NewArchive(store blobstore.Store, optFns ...ArchiveOption) *Archive {
	opts := applyArchiveOptions(optFns)
	return &Archive{
		store: store,
		opts:  opts,
		rc:    resource.NewController(opts.limits),
	}
}

// Save encodes a and writes it under name, replacing any previous array.
func (ar *Archive) Save(ctx context.Context, name string, a *Array) (err error) {
	start := time.Now()
	size := 0
	defer func() {
		elapsed := time.Since(start)
		ar.opts.metricsCollector.RecordSave(size, elapsed, err)
		ar.opts.logger.LogSave(ctx, name, size, elapsed, err)
	}()

	if a == nil {
		return fmt.Errorf("%w: nil array", ErrInvalidOperand)
	}
	if err := blobstore.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOperand, err)
	}

	blob, err := ar.encode(a)
	if err != nil {
		return err
	}
	size = len(blob)

	reserved, err := ar.rc.AcquireMemory(ctx, int64(size))
	if err != nil {
		return err
	}
	defer ar.rc.ReleaseMemory(reserved)

	if err := ar.rc.AcquireIO(ctx, size); err != nil {
		return err
	}
	release, err := ar.rc.AcquireRequest(ctx)
	if err != nil {
		return err
	}
	defer release()

	return ar.store.Put(ctx, name, blob)
}

// Load reads the array stored under name. A missing blob fails with
// ErrNotFound; a blob that does not verify fails with ErrCorrupt.
func (ar *Archive) Load(ctx context.Context, name string) (a *Array, err error) {
	start := time.Now()
	size := 0
	defer func() {
		elapsed := time.Since(start)
		ar.opts.metricsCollector.RecordLoad(size, elapsed, err)
		ar.opts.logger.LogLoad(ctx, name, size, elapsed, err)
	}()

	release, err := ar.rc.AcquireRequest(ctx)
	if err != nil {
		return nil, err
	}
	blob, err := ar.store.Get(ctx, name)
	release()
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: array %q", ErrNotFound, name)
		}
		return nil, err
	}
	size = len(blob)

	reserved, err := ar.rc.AcquireMemory(ctx, int64(size))
	if err != nil {
		return nil, err
	}
	defer ar.rc.ReleaseMemory(reserved)

	if err := ar.rc.AcquireIO(ctx, size); err != nil {
		return nil, err
	}

	return decodeArchived(blob)
}

// Delete removes the array stored under name. Deleting a missing array
// succeeds.
func (ar *Archive) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() {
		ar.opts.metricsCollector.RecordDelete(time.Since(start), err)
		ar.opts.logger.LogDelete(ctx, name, err)
	}()

	release, err := ar.rc.AcquireRequest(ctx)
	if err != nil {
		return err
	}
	defer release()
	return ar.store.Delete(ctx, name)
}

// List returns the sorted names of stored arrays starting with prefix.
func (ar *Archive) List(ctx context.Context, prefix string) ([]string, error) {
	release, err := ar.rc.AcquireRequest(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return ar.store.List(ctx, prefix)
}

// SaveAll saves every array in parallel, bounded by WithConcurrency. It
// stops at the first failure and returns it.
func (ar *Archive) SaveAll(ctx context.Context, arrays map[string]*Array) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ar.opts.concurrency)

	var failed atomic.Int64
	for name, a := range arrays {
		g.Go(func() error {
			if err := ar.Save(gctx, name, a); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	ar.opts.logger.LogBatch(ctx, "save all", len(arrays), int(failed.Load()))
	return err
}

// LoadAll loads the named arrays in parallel, bounded by WithConcurrency.
// It stops at the first failure and returns it.
func (ar *Archive) LoadAll(ctx context.Context, names []string) (map[string]*Array, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ar.opts.concurrency)

	var (
		mu     sync.Mutex
		failed atomic.Int64
		out    = make(map[string]*Array, len(names))
	)
	for _, name := range names {
		g.Go(func() error {
			a, err := ar.Load(gctx, name)
			if err != nil {
				failed.Add(1)
				return err
			}
			mu.Lock()
			out[name] = a
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	ar.opts.logger.LogBatch(ctx, "load all", len(names), int(failed.Load()))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// encode lays out magic | version | compression | codec name | crc32c |
// framed payload. The checksum covers the uncompressed payload.
func (ar *Archive) encode(a *Array) ([]byte, error) {
	c := ar.opts.codec
	payload, err := c.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode with %s codec: %w", c.Name(), err)
	}
	name := c.Name()
	if _, ok := codec.ByName(name); !ok {
		return nil, fmt.Errorf("%w: codec %q is not registered", ErrInvalidOperand, name)
	}

	framed, err := compress.Compress(payload, ar.opts.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOperand, err)
	}

	buf := make([]byte, 0, len(archiveMagic)+3+len(name)+4+len(framed))
	buf = append(buf, archiveMagic...)
	buf = append(buf, archiveVersion, byte(ar.opts.compression), byte(len(name)))
	buf = append(buf, name...)
	buf = binary.LittleEndian.AppendUint32(buf, hash.CRC32C(payload))
	return append(buf, framed...), nil
}

func decodeArchived(blob []byte) (*Array, error) {
	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: archive: %s", ErrCorrupt, fmt.Sprintf(format, args...))
	}

	if len(blob) < len(archiveMagic)+3 || string(blob[:len(archiveMagic)]) != archiveMagic {
		return nil, corrupt("bad magic")
	}
	p := blob[len(archiveMagic):]
	if p[0] != archiveVersion {
		return nil, corrupt("unsupported version %d", p[0])
	}
	kind := compress.Kind(p[1])
	if !kind.Valid() {
		return nil, corrupt("unknown compression %d", p[1])
	}
	n := int(p[2])
	p = p[3:]
	if len(p) < n+4 {
		return nil, corrupt("truncated header")
	}
	c, ok := codec.ByName(string(p[:n]))
	if !ok {
		return nil, corrupt("unknown codec %q", p[:n])
	}
	sum := binary.LittleEndian.Uint32(p[n:])
	p = p[n+4:]

	payload, err := compress.Decompress(p, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: archive: %w", ErrCorrupt, err)
	}
	if got := hash.CRC32C(payload); got != sum {
		return nil, corrupt("checksum mismatch: got %08x, want %08x", got, sum)
	}

	a := new(Array)
	if err := c.Unmarshal(payload, a); err != nil {
		if errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: archive: %w", ErrCorrupt, err)
	}
	return a, nil
}
