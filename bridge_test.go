package formstate

import (
	"reflect"
	"testing"
)

type published struct {
	field string
	value any
}

type recordingBridge struct {
	defaults map[string]Record
	assigned []string
	sent     []published
}

func (b *recordingBridge) FetchDefault(field, group string) (Record, bool) {
	rec, ok := b.defaults[field]
	return rec, ok
}

func (b *recordingBridge) Publish(field string, value any) {
	b.sent = append(b.sent, published{field: field, value: value})
}

func (b *recordingBridge) AssignField(key, field, group string) {
	b.assigned = append(b.assigned, key+"/"+field+"/"+group)
}

func TestGetValueStoresHostDefaultWithoutModifying(t *testing.T) {
	bridge := &recordingBridge{defaults: map[string]Record{"Name": {"value": "Host"}}}
	s := NewStore(WithFormBridge(bridge))
	counter := watch(s)

	got := s.GetValue("1R", "Name", Record{"value": ""})
	if got["value"] != "Host" {
		t.Fatalf("expected host value, got %#v", got)
	}
	if !s.Has("1R") || s.Modified() || counter.set != 0 {
		t.Fatalf("expected host default stored silently, modified=%v", s.Modified())
	}
	if len(bridge.sent) != 0 {
		t.Fatalf("expected no publication for host default, got %v", bridge.sent)
	}
	if !reflect.DeepEqual(bridge.assigned, []string{"1R/Name/"}) {
		t.Fatalf("expected registrar to see the field, got %v", bridge.assigned)
	}

	bridge.defaults["Name"]["value"] = "mutated"
	if entry, _ := s.GetRawValue("1R"); entry.Record["value"] != "Host" {
		t.Fatalf("expected stored default to be a copy")
	}
}

func TestGetValueConvertsGroupedDefault(t *testing.T) {
	bridge := &recordingBridge{defaults: map[string]Record{"Color": {"value": "red"}}}
	s := NewStore(WithFormBridge(bridge))

	red := s.GetValue("10R", "Color", Record{}, WithGroupToken("red"))
	blue := s.GetValue("11R", "Color", Record{}, WithGroupToken("blue"))
	if red["value"] != true || blue["value"] != false {
		t.Fatalf("expected radio conversion, got red=%v blue=%v", red["value"], blue["value"])
	}
}

func TestGetValuePublishesPrefilledDefault(t *testing.T) {
	bridge := &recordingBridge{defaults: map[string]Record{}}
	s := NewStore(WithFormBridge(bridge))

	s.GetValue("1R", "Name", Record{"value": "Pre"})
	s.GetValue("2R", "Empty", Record{"value": ""})
	s.GetValue("3R", "Color", Record{"value": true}, WithGroupToken("green"))
	s.GetValue("4R", "Color", Record{"value": false}, WithGroupToken("blue"))

	want := []published{{field: "Name", value: "Pre"}, {field: "Color", value: "green"}}
	if !reflect.DeepEqual(bridge.sent, want) {
		t.Fatalf("unexpected publications: %#v", bridge.sent)
	}
	if s.Size() != 0 {
		t.Fatalf("expected defaults not to be stored, size=%d", s.Size())
	}
}

func TestGetValueWithoutHostValueIgnoresMissingField(t *testing.T) {
	bridge := &recordingBridge{defaults: map[string]Record{"Name": {"exportValue": "x"}}}
	s := NewStore(WithFormBridge(bridge))
	got := s.GetValue("1R", "Name", Record{"value": "d"})
	if got["value"] != "d" || s.Has("1R") {
		t.Fatalf("expected host record without value to be ignored, got %#v", got)
	}
}

func TestSetValuePublishOrder(t *testing.T) {
	cases := []struct {
		name  string
		value Record
		want  []published
	}{
		{
			name:  "items win",
			value: Record{"items": []any{"a"}, "radioValue": "r", "value": 1},
			want:  []published{{field: "F", value: []any{"a"}}},
		},
		{
			name:  "emitMessage false suppresses",
			value: Record{"emitMessage": false, "value": 1},
			want:  nil,
		},
		{
			name:  "radio value",
			value: Record{"radioValue": "r", "exportValue": "e"},
			want:  []published{{field: "F", value: "r"}},
		},
		{
			name:  "export value",
			value: Record{"exportValue": "e", "value": "v"},
			want:  []published{{field: "F", value: "e"}},
		},
		{
			name:  "each value in key order",
			value: Record{"value": "v", "formattedValue": "fv"},
			want:  []published{{field: "F", value: "fv"}, {field: "F", value: "v"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bridge := &recordingBridge{}
			s := NewStore(WithFormBridge(bridge))
			if err := s.SetValue("1R", "F", tc.value); err != nil {
				t.Fatalf("set: %v", err)
			}
			if !reflect.DeepEqual(bridge.sent, tc.want) {
				t.Fatalf("unexpected publications: %#v", bridge.sent)
			}
		})
	}
}

func TestSetValueSkipsPublishing(t *testing.T) {
	bridge := &recordingBridge{}
	s := NewStore(WithFormBridge(bridge), WithSilentEditorKinds("ink"))

	_ = s.SetValue("1R", "", Record{"value": 1})
	_ = s.SetValue("2R", "ink", Record{"value": 1})
	_ = s.SetValue("3R", "F", Record{"value": 1}, AsDefault())
	_ = s.SetValue("4R", "F", Record{"value": 1})
	_ = s.SetValue("4R", "F", Record{"value": 1})

	if len(bridge.sent) != 1 {
		t.Fatalf("expected only the first modifying named write to publish, got %#v", bridge.sent)
	}
}

func TestBridgeFuncsAdapter(t *testing.T) {
	var got []any
	bridge := BridgeFuncs{
		Fetch: func(field, group string) (Record, bool) {
			return Record{"value": field + group}, true
		},
		PublishFunc: func(field string, value any) { got = append(got, value) },
	}
	s := NewStore(WithFormBridge(bridge))
	if rec := s.GetValue("1R", "A", nil); rec["value"] != "A" {
		t.Fatalf("expected fetched value, got %#v", rec)
	}
	_ = s.SetValue("1R", "A", Record{"value": "B"})
	if !reflect.DeepEqual(got, []any{"B"}) {
		t.Fatalf("expected publication through adapter, got %v", got)
	}

	var empty BridgeFuncs
	if _, ok := empty.FetchDefault("x", ""); ok {
		t.Fatalf("expected zero BridgeFuncs to fetch nothing")
	}
	empty.Publish("x", 1)
}
