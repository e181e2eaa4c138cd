package dtype

// Promote returns the smallest dtype both a and b convert to without
// changing category.
func Promote(a, b DType) DType {
	switch {
	case a == b:
		return a
	case a == Bool:
		return b
	case b == Bool:
		return a
	case a.IsFloat() || b.IsFloat():
		return promoteFloat(a, b)
	case a.IsSigned() == b.IsSigned():
		return max(a, b)
	case a.IsSigned():
		return promoteMixed(a, b)
	default:
		return promoteMixed(b, a)
	}
}

func promoteFloat(a, b DType) DType {
	if a == Float64 || b == Float64 {
		return Float64
	}
	other := a
	if a == Float32 {
		other = b
	}
	if other == Float32 || other.Size() <= 2 {
		return Float32
	}
	return Float64
}

// promoteMixed widens a signed and an unsigned dtype to a signed dtype that
// holds both ranges.
func promoteMixed(signed, unsigned DType) DType {
	if unsigned.Size() < signed.Size() {
		return signed
	}
	switch unsigned {
	case Uint8:
		return Int16
	case Uint16:
		return Int32
	case Uint32:
		return Int64
	default:
		return Float64
	}
}

// PromoteScalar returns the dtype of an operation between an array of dtype
// arr and a bare scalar of dtype scalar. The scalar only widens the result
// when it belongs to a higher category.
func PromoteScalar(arr, scalar DType) DType {
	if scalar.Category() <= arr.Category() {
		return arr
	}
	return Promote(arr, scalar.Category().Default())
}
