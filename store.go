package formstate

import (
	"container/list"
	"reflect"
	"time"

	layering "github.com/goliatone/go-formstate/layering"
	"github.com/goliatone/go-formstate/pkg/activity"
)

// Store is the key/value storage for form annotation data of one document
// session. It tracks whether the document was modified since creation or the
// last reset and notifies listeners on every edge of that flag.
//
// A Store is not safe for concurrent use; it belongs to a single document
// session. Use Print to hand a frozen copy to a print pipeline.
type Store struct {
	order    *list.List
	index    map[string]*list.Element
	modified bool
	cfg      storeConfig
	emitter  *activity.Emitter

	onSetModified      func()
	onResetModified    func()
	onAnnotationEditor func(kind string)
}

type slot struct {
	key   string
	entry Entry
}

// NewStore creates an empty, unmodified store.
func NewStore(opts ...Option) *Store {
	cfg := applyOptions(opts)
	return &Store{
		order:   list.New(),
		index:   map[string]*list.Element{},
		cfg:     cfg,
		emitter: activity.NewEmitter(cfg.hooks, cfg.activity),
	}
}

// OnSetModified registers fn to run when the store becomes modified. Nil
// unregisters.
func (s *Store) OnSetModified(fn func()) {
	s.onSetModified = fn
}

// OnResetModified registers fn to run when the modified flag is cleared.
func (s *Store) OnResetModified(fn func()) {
	s.onResetModified = fn
}

// OnAnnotationEditor registers fn to run with the editor kind whenever an
// editor is written, and with NoEditor once the last editor is removed.
func (s *Store) OnAnnotationEditor(fn func(kind string)) {
	s.onAnnotationEditor = fn
}

// Has reports whether key has an entry.
func (s *Store) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Size returns the number of entries.
func (s *Store) Size() int {
	return len(s.index)
}

// Modified reports whether the document has unsaved field changes.
func (s *Store) Modified() bool {
	return s.modified
}

// GetRawValue returns the entry stored under key without consulting the
// bridge.
func (s *Store) GetRawValue(key string) (Entry, bool) {
	el, ok := s.index[key]
	if !ok {
		return Entry{}, false
	}
	return el.Value.(*slot).entry, true
}

// GetValue resolves the effective record for a field. When storage has no
// entry the bridge is asked for a host default, which is stored without
// marking the document modified; otherwise a non-empty defaults value is
// published to the host. If an entry exists its fields are merged onto
// defaults in place and defaults is returned, so callers receive the same map
// they passed in.
func (s *Store) GetValue(key, field string, defaults Record, opts ...GetOption) Record {
	cfg := getConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	entry, found := s.GetRawValue(key)
	if !found && s.hasBridge() {
		if external, ok := s.fetchDefault(key, field, cfg.group); ok {
			// No field identifier: storing a host value must not echo back to the host.
			if err := s.SetValue(key, "", external, AsDefault()); err == nil {
				entry, found = Entry{Record: external}, true
			}
		}
		if !found {
			s.publishDefault(field, cfg.group, defaults)
		}
	}

	if !found {
		return defaults
	}
	return Record(layering.Assign(defaults, entry.Serialize()))
}

// SetValue inserts value under key or merges it into the existing entry.
// value must be a Record (or map[string]any), an Editor or an Entry.
//
// A new key marks the document modified unless AsDefault is given. Merging a
// record marks it modified only when a non-reserved field actually changes.
// Modified writes that name a field or group are published to the bridge.
func (s *Store) SetValue(key, field string, value any, opts ...SetOption) error {
	start := s.now()
	cfg := setConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if key == "" {
		err := wrapStoreError("set", key, ErrEmptyKey)
		s.logger().LogStoreEvent(StoreLogEvent{Op: "set", Field: field, Err: err, Duration: s.since(start)})
		return err
	}
	incoming, err := entryFrom(value)
	if err != nil {
		err = wrapStoreError("set", key, err)
		s.logger().LogStoreEvent(StoreLogEvent{Op: "set", Key: key, Field: field, Err: err, Duration: s.since(start)})
		return err
	}

	modified := false
	if el, ok := s.index[key]; ok {
		modified = s.merge(el.Value.(*slot), incoming)
	} else {
		modified = !cfg.isDefault
		s.index[key] = s.order.PushBack(&slot{key: key, entry: incoming})
	}

	if modified {
		s.setModified()
		s.publishChange(field, cfg.group, incoming)
		s.emit(activity.BuildFieldUpdatedEvent(s.eventInput(key, field, cfg.group, incoming.Serialize())))
	}

	if incoming.Editor != nil && s.onAnnotationEditor != nil {
		s.onAnnotationEditor(incoming.Editor.Kind())
	}

	s.logger().LogStoreEvent(StoreLogEvent{Op: "set", Key: key, Field: field, Modified: modified, Duration: s.since(start)})
	return nil
}

// merge folds incoming into the slot and reports whether anything changed.
func (s *Store) merge(current *slot, incoming Entry) bool {
	if current.entry.Editor == nil && incoming.Editor == nil {
		if current.entry.Record == nil {
			current.entry.Record = Record{}
		}
		changed := false
		for name, value := range incoming.Record {
			if _, reserved := s.cfg.reserved[name]; reserved {
				continue
			}
			if existing, ok := current.entry.Record[name]; ok && reflect.DeepEqual(existing, value) {
				continue
			}
			current.entry.Record[name] = value
			changed = true
		}
		return changed
	}

	if sameEditor(current.entry.Editor, incoming.Editor) {
		return false
	}
	current.entry = incoming
	return true
}

// Remove deletes the entry for key. Emptying the store clears the modified
// flag. Removing an absent key is not an error.
func (s *Store) Remove(key string) {
	start := s.now()
	if el, ok := s.index[key]; ok {
		s.order.Remove(el)
		delete(s.index, key)
		s.emit(activity.BuildFieldRemovedEvent(s.eventInput(key, "", "", nil)))
	}

	if len(s.index) == 0 {
		s.ResetModified()
	}

	if s.onAnnotationEditor != nil && !s.hasEditor() {
		s.onAnnotationEditor(NoEditor)
	}
	s.logger().LogStoreEvent(StoreLogEvent{Op: "remove", Key: key, Duration: s.since(start)})
}

func (s *Store) hasEditor() bool {
	for el := s.order.Front(); el != nil; el = el.Next() {
		if el.Value.(*slot).entry.Editor != nil {
			return true
		}
	}
	return false
}

// ResetModified clears the modified flag, notifying listeners only when it
// was set.
func (s *Store) ResetModified() {
	if !s.modified {
		return
	}
	s.modified = false
	if s.onResetModified != nil {
		s.onResetModified()
	}
	s.emit(activity.BuildDocumentResetEvent(s.eventInput("", "", "", nil)))
	s.logger().LogStoreEvent(StoreLogEvent{Op: "reset"})
}

func (s *Store) setModified() {
	if s.modified {
		return
	}
	s.modified = true
	if s.onSetModified != nil {
		s.onSetModified()
	}
	s.emit(activity.BuildDocumentModifiedEvent(s.eventInput("", "", "", nil)))
}

// GetAll returns a shallow copy of every entry, or nil when the store is
// empty. It is meant for bulk export; changing the returned map does not
// change storage, but the records inside are shared.
func (s *Store) GetAll() map[string]Entry {
	if len(s.index) == 0 {
		return nil
	}
	out := make(map[string]Entry, len(s.index))
	for el := s.order.Front(); el != nil; el = el.Next() {
		sl := el.Value.(*slot)
		out[sl.key] = sl.entry
	}
	return out
}

// Serializable returns the on-the-wire form of storage in insertion order:
// plain records as stored and editors through Serialize. Entries that
// serialize to nothing are omitted. It returns nil for an empty store.
//
// Records are not copied; use Print for a frozen view.
func (s *Store) Serializable() *Serialized {
	if len(s.index) == 0 {
		return nil
	}
	out := NewSerialized()
	for el := s.order.Front(); el != nil; el = el.Next() {
		sl := el.Value.(*slot)
		if rec := sl.entry.Serialize(); len(rec) > 0 {
			out.Set(sl.key, rec)
		}
	}
	return out
}

// Hash fingerprints the current serializable content.
func (s *Store) Hash() string {
	return GetHashWith(s.cfg.hasher, s.Serializable())
}

// Print freezes the current serializable content into a snapshot for one
// print cycle.
func (s *Store) Print() *PrintSnapshot {
	start := s.now()
	snapshot := newPrintSnapshot(s.Serializable(), s.cfg.hasher)
	s.logger().LogStoreEvent(StoreLogEvent{Op: "print", Duration: s.since(start)})
	return snapshot
}

func (s *Store) logger() StoreLogger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopStoreLogger{}
}

func (s *Store) now() time.Time {
	if s.cfg.now != nil {
		return s.cfg.now()
	}
	return time.Now()
}

func (s *Store) since(start time.Time) time.Duration {
	return s.now().Sub(start)
}

func looseEqual(value any, token string) bool {
	str, ok := value.(string)
	return ok && str == token
}
