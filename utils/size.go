package utils

// EstimateSize approximates the serialized footprint of a cache value by
// encoding it and measuring the result. Values sonic cannot encode fall back
// to a fixed cost so bookkeeping never fails the triggering operation.
func EstimateSize(value interface{}) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		return int64(len(v))
	case []byte:
		return int64(len(v))
	}

	buf := jsonPool.Get()
	defer jsonPool.Put(buf)

	if err := MarshalToBuffer(value, buf); err != nil {
		return fallbackEntrySize
	}

	return int64(buf.Len())
}

// fallbackEntrySize is charged for values that cannot be serialized.
const fallbackEntrySize = 64
