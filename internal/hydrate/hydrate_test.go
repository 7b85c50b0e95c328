package hydrate

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type choiceField struct {
	Value       string   `json:"value"`
	ExportValue string   `json:"exportValue"`
	Items       []string `json:"items"`
}

type ageField struct {
	Value int `json:"value"`
}

func TestDecoderCases(t *testing.T) {
	ctx := Context{Key: "9R", Field: "Choice"}

	cases := []struct {
		name      string
		input     map[string]any
		options   []DecoderOption[choiceField]
		expect    choiceField
		expectErr string
	}{
		{
			name:   "json tags",
			input:  map[string]any{"value": "b", "exportValue": "B", "items": []any{"a", "b"}},
			expect: choiceField{Value: "b", ExportValue: "B", Items: []string{"a", "b"}},
		},
		{
			name:   "unused fields ignored by default",
			input:  map[string]any{"value": "a", "radioValue": "x"},
			expect: choiceField{Value: "a"},
		},
		{
			name:      "unused fields rejected",
			input:     map[string]any{"value": "a", "radioValue": "x"},
			options:   []DecoderOption[choiceField]{WithErrorUnused[choiceField]()},
			expectErr: "hydrate: decode key \"9R\"",
		},
		{
			name:  "pre hook rewrites payload",
			input: map[string]any{"value": " padded "},
			options: []DecoderOption[choiceField]{WithPreHook[choiceField](func(_ Context, payload map[string]any) (map[string]any, error) {
				payload["value"] = strings.TrimSpace(payload["value"].(string))
				return payload, nil
			})},
			expect: choiceField{Value: "padded"},
		},
		{
			name:  "post hook rejects",
			input: map[string]any{"value": "z"},
			options: []DecoderOption[choiceField]{WithPostHook[choiceField](func(_ Context, out *choiceField) error {
				return errors.New("unknown choice")
			})},
			expectErr: "post-hook for key \"9R\" failed: unknown choice",
		},
		{
			name:  "custom decoder",
			input: map[string]any{"value": "raw"},
			options: []DecoderOption[choiceField]{WithCustomDecoder[choiceField](func(c Context, _ map[string]any) (choiceField, error) {
				return choiceField{Value: c.Field}, nil
			})},
			expect: choiceField{Value: "Choice"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewDecoder(tc.options...).Decode(ctx, tc.input)
			if tc.expectErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.expectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !reflect.DeepEqual(tc.expect, got) {
				t.Fatalf("decoded mismatch:\nwant: %#v\n got: %#v", tc.expect, got)
			}
		})
	}
}

func TestDecoderWeaklyTypedInput(t *testing.T) {
	input := map[string]any{"value": "30"}

	if _, err := NewDecoder[ageField]().Decode(Context{Key: "9R"}, input); err == nil {
		t.Fatalf("expected strict decoding to reject string into int")
	}

	got, err := NewDecoder(WithWeaklyTypedInput[ageField]()).Decode(Context{Key: "9R"}, input)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Value != 30 {
		t.Fatalf("expected 30, got %d", got.Value)
	}
}

func TestDecoderRejectsNilAndKeepsInput(t *testing.T) {
	if _, err := NewDecoder[ageField]().Decode(Context{Key: "1R"}, nil); err == nil {
		t.Fatalf("expected error for nil record")
	}

	input := map[string]any{"value": 1}
	hook := WithPreHook[ageField](func(_ Context, payload map[string]any) (map[string]any, error) {
		payload["value"] = 2
		return payload, nil
	})
	got, err := NewDecoder(hook).Decode(Context{Key: "1R"}, input)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Value != 2 || input["value"] != 1 {
		t.Fatalf("expected hook on a copy, got %d and input %v", got.Value, input["value"])
	}
}
