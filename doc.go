// Package sparse provides an immutable one-dimensional sparse array.
//
// An Array stores only the positions whose value differs from a fill value.
// The stored positions are described by an index.SparseIndex, either as
// runs of consecutive positions (block encoding) or as a sorted list of
// positions (integer encoding). Every other position implicitly holds the
// fill value.
//
// # Quick Start
//
//	nan := math.NaN()
//	arr, _ := sparse.New([]float64{nan, nan, 1, 2, nan, 3, 4})
//	arr.NPoints()   // 4
//	arr.SpValues()  // []float64{1, 2, 3, 4}
//	arr.Values()    // dense copy, NaN at unstored positions
//
// The fill value defaults to NaN for floating dtypes, false for bool and
// zero otherwise. Use WithFillValue, WithDType and WithIndexKind to
// override it:
//
//	arr, _ := sparse.New([]int64{0, 0, 7, 0}, sparse.WithFillValue(int64(0)),
//	    sparse.WithIndexKind(index.KindInt))
//
// # Arithmetic and Comparison
//
// Binary operations accept another Array, a dense slice of equal length or
// a scalar. Two arrays combine over the union of their stored positions and
// the result fill is the operation applied to both fills:
//
//	sum, _ := a.Add(b)
//	mask, _ := a.Gt(0.5)
//
// Dtypes promote like NumPy: int8 + int64 is int64, int + float64 is
// float64, and TrueDiv always yields a floating result. Integer division or
// modulo by zero fails with ErrZeroDivision.
//
// # Access
//
// Get, Take, Slice and SliceStep accept negative positions counted from the
// end. Arrays are immutable: Assign and AssignSlice always fail with
// ErrUnsupported.
//
// # Persistence
//
// Arrays implement encoding.BinaryMarshaler and json.Marshaler. An Archive
// stores them as checksummed, optionally compressed blobs in any
// blobstore.Store:
//
//	ar := sparse.NewArchive(blobstore.NewLocalStore("./data"),
//	    sparse.WithCompression(sparse.CompressionZstd))
//	_ = ar.Save(ctx, "grids/a", arr)
//	arr, _ = ar.Load(ctx, "grids/a")
//
// Remote stores live in blobstore/s3 and blobstore/minio.
//
// # Observability
//
// Archive calls report to a MetricsCollector and a slog-based Logger:
//
//	metrics := &sparse.BasicMetricsCollector{}
//	ar := sparse.NewArchive(store,
//	    sparse.WithMetricsCollector(metrics),
//	    sparse.WithLogger(sparse.NewJSONLogger(slog.LevelInfo)))
package sparse
