package token

import (
	"encoding/json"
	"testing"
)

func TestIsText(t *testing.T) {
	cases := []struct {
		name string
		tok  *Token
		want bool
	}{
		{"text token", NewTextToken("hi", Span{}), true},
		{"template open", NewTemplateOpenToken(Span{}), false},
		{"nil", nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.tok.IsText(); got != c.want {
				t.Errorf("IsText() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestHeadingStartLevel(t *testing.T) {
	tok := NewHeadingStartToken(3, Span{Start: 0, End: 3})
	if tok.Level == nil || *tok.Level != 3 {
		t.Fatalf("expected level 3, got %v", tok.Level)
	}
}

func TestMarshalOmitsUnusedFields(t *testing.T) {
	tok := NewTemplateOpenToken(Span{Start: 1, End: 3})
	data, err := json.Marshal(tok)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if _, ok := decoded["text"]; ok {
		t.Errorf("expected no text field for TemplateOpen, got %v", decoded)
	}
	if _, ok := decoded["level"]; ok {
		t.Errorf("expected no level field for TemplateOpen, got %v", decoded)
	}
	if decoded["kind"] != "TemplateOpen" {
		t.Errorf("expected kind TemplateOpen, got %v", decoded["kind"])
	}
}

func TestMarshalTextToken(t *testing.T) {
	tok := NewTextToken("hello", Span{Start: 0, End: 5})
	data, err := json.Marshal(tok)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if decoded["text"] != "hello" {
		t.Errorf("expected text hello, got %v", decoded["text"])
	}
}
