package literal

// HashLookup walks the flattened field/value pairs of a hash row and returns the
// value following field. found is false when field is absent or its value is NULL.
func HashLookup(encoded string, field string) (value string, found bool, err error) {
	elements, err := DecodeArray(encoded)
	if err != nil {
		return
	}

	for i := 0; i+1 < len(elements); i += 2 {
		if elements[i].Null || elements[i].Value != field {
			continue
		}
		if elements[i+1].Null {
			return
		}
		value = elements[i+1].Value
		found = true
		return
	}
	return
}
