package formstate

import "github.com/goliatone/go-formstate/internal/hydrate"

// DecodeRecord converts a record into T, matching struct fields by their json
// tags. Strings are coerced into numeric and boolean fields, since form hosts
// commonly report every value as text.
func DecodeRecord[T any](rec Record) (T, error) {
	return hydrate.NewDecoder(hydrate.WithWeaklyTypedInput[T]()).
		Decode(hydrate.Context{}, rec)
}

// DecodeValue decodes the serialized entry stored under key. ok is false when
// the store has no content for key.
func DecodeValue[T any](s *Store, key string) (value T, ok bool, err error) {
	entry, found := s.GetRawValue(key)
	if !found {
		return value, false, nil
	}
	rec := entry.Serialize()
	if rec == nil {
		return value, false, nil
	}
	value, err = hydrate.NewDecoder(hydrate.WithWeaklyTypedInput[T]()).
		Decode(hydrate.Context{Key: key}, rec)
	if err != nil {
		return value, true, wrapStoreError("decode", key, err)
	}
	return value, true, nil
}
