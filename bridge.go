package formstate

// FormBridge connects the store to a host application that owns default field
// values and wants to hear about changes.
type FormBridge interface {
	// FetchDefault returns the host-known record for field. group is set for
	// mutually exclusive fields such as radio buttons.
	FetchDefault(field, group string) (Record, bool)
	// Publish pushes a changed value for field to the host.
	Publish(field string, value any)
}

// FieldRegistrar is implemented by bridges that want to learn which storage
// key backs a field before defaults are fetched.
type FieldRegistrar interface {
	AssignField(key, field, group string)
}

// BridgeFuncs adapts plain functions to FormBridge. Nil functions are no-ops.
type BridgeFuncs struct {
	Fetch       func(field, group string) (Record, bool)
	PublishFunc func(field string, value any)
}

// FetchDefault implements FormBridge.
func (b BridgeFuncs) FetchDefault(field, group string) (Record, bool) {
	if b.Fetch == nil {
		return nil, false
	}
	return b.Fetch(field, group)
}

// Publish implements FormBridge.
func (b BridgeFuncs) Publish(field string, value any) {
	if b.PublishFunc != nil {
		b.PublishFunc(field, value)
	}
}

type noopBridge struct{}

func (noopBridge) FetchDefault(string, string) (Record, bool) { return nil, false }

func (noopBridge) Publish(string, any) {}

// WithFormBridge attaches a host bridge. Nil detaches it.
func WithFormBridge(bridge FormBridge) Option {
	return func(cfg *storeConfig) {
		cfg.bridge = bridge
	}
}

// WithSilentEditorKinds lists field identifiers that never publish to the
// bridge; hosts use it for editor kinds that manage their own content.
func WithSilentEditorKinds(kinds ...string) Option {
	return func(cfg *storeConfig) {
		cfg.silentKinds = stringSet(kinds)
	}
}

func (s *Store) hasBridge() bool {
	if s.cfg.bridge == nil {
		return false
	}
	_, noop := s.cfg.bridge.(noopBridge)
	return !noop
}

func (s *Store) bridge() FormBridge {
	if s.cfg.bridge == nil {
		return noopBridge{}
	}
	return s.cfg.bridge
}

// fetchDefault asks the bridge for a host value and converts it for grouped
// fields. The returned record is owned by the store.
func (s *Store) fetchDefault(key, field, group string) (Record, bool) {
	if registrar, ok := s.cfg.bridge.(FieldRegistrar); ok {
		registrar.AssignField(key, field, group)
	}
	external, ok := s.bridge().FetchDefault(field, group)
	s.logger().LogStoreEvent(StoreLogEvent{Op: "bridge.fetch", Key: key, Field: field})
	if !ok || external == nil {
		return nil, false
	}
	value, has := external[FieldValue]
	if !has || value == nil {
		return nil, false
	}
	if group != "" {
		return Record{FieldValue: looseEqual(value, group)}, true
	}
	return external.Clone(), true
}

// publishDefault forwards a pre-filled default to the host. Grouped fields
// only publish when the default is set.
func (s *Store) publishDefault(field, group string, defaults Record) {
	if defaults == nil {
		return
	}
	value, ok := defaults[FieldValue]
	if !ok || value == nil || value == "" {
		return
	}
	if group != "" {
		if truthy(value) {
			s.publishValue(field, group)
		}
		return
	}
	s.publishValue(field, value)
}

// publishChange forwards a modified write. A list value wins, an explicit
// emitMessage=false suppresses publication, then radioValue, then
// exportValue, otherwise every field value is published in key order.
func (s *Store) publishChange(field, group string, value Entry) {
	if !s.hasBridge() || (field == "" && group == "") {
		return
	}
	if _, silent := s.cfg.silentKinds[field]; silent {
		return
	}
	rec := value.Serialize()
	if items, ok := rec[FieldItems]; ok && truthy(items) {
		s.publishValue(field, items)
		return
	}
	if emit, ok := rec[FieldEmitMessage]; ok && emit == false {
		return
	}
	if radio := rec[FieldRadioValue]; truthy(radio) {
		s.publishValue(field, radio)
		return
	}
	if export := rec[FieldExportValue]; truthy(export) {
		s.publishValue(field, export)
		return
	}
	for _, name := range sortedKeys(rec) {
		s.publishValue(field, rec[name])
	}
}

func (s *Store) publishValue(field string, value any) {
	s.bridge().Publish(field, value)
	s.logger().LogStoreEvent(StoreLogEvent{Op: "bridge.publish", Field: field})
}
