package formstate

import (
	"math"
	"reflect"

	layering "github.com/goliatone/go-formstate/layering"
)

// Well-known record fields.
const (
	FieldValue       = "value"
	FieldExportValue = "exportValue"
	FieldItems       = "items"
	FieldRadioValue  = "radioValue"
	FieldEmitMessage = "emitMessage"
)

// NoEditor is passed to the annotation editor callback once storage no longer
// holds any editor entry.
const NoEditor = ""

// Record is a plain field record: an unordered set of named values such as
// value, exportValue or items.
type Record map[string]any

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(layering.CloneMap(r))
}

// Editor is an opaque graphical annotation editor stored alongside plain
// records. Serialize returns nil when the editor has nothing to persist.
type Editor interface {
	Kind() string
	Serialize() Record
}

// Entry is the value held for one storage key: exactly one of Record or Editor
// is set.
type Entry struct {
	Record Record
	Editor Editor
}

// IsEditor reports whether the entry holds an editor.
func (e Entry) IsEditor() bool {
	return e.Editor != nil
}

// Serialize returns the plain record form of the entry.
func (e Entry) Serialize() Record {
	if e.Editor != nil {
		return e.Editor.Serialize()
	}
	return e.Record
}

// entryFrom classifies a SetValue argument.
func entryFrom(value any) (Entry, error) {
	switch v := value.(type) {
	case Record:
		if v == nil {
			return Entry{}, ErrInvalidValue
		}
		return Entry{Record: v}, nil
	case map[string]any:
		if v == nil {
			return Entry{}, ErrInvalidValue
		}
		return Entry{Record: Record(v)}, nil
	case Entry:
		if (v.Editor == nil) == (v.Record == nil) {
			return Entry{}, ErrInvalidValue
		}
		return v, nil
	case *Entry:
		if v == nil {
			return Entry{}, ErrInvalidValue
		}
		return entryFrom(*v)
	case Editor:
		if isNilEditor(v) {
			return Entry{}, ErrInvalidValue
		}
		return Entry{Editor: v}, nil
	default:
		return Entry{}, ErrInvalidValue
	}
}

func isNilEditor(e Editor) bool {
	if e == nil {
		return true
	}
	rv := reflect.ValueOf(e)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func sameEditor(a, b Editor) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// truthy mirrors the loose boolean test used by form hosts: nil, false, zero,
// NaN and the empty string are false, everything else is true.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int:
		return v != 0
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return !reflect.ValueOf(v).IsZero()
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
