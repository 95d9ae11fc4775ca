package modeltest

import (
	"strings"
	"testing"
)

func TestJSONEqual(t *testing.T) {
	if err := JSONEqual([]byte(`{"label":"positive","score":0.5744425168}`), []byte(`{"score":0.574442516811659,"label":"positive"}`), 1e-9); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := JSONEqual([]byte(`{"score":0.6}`), []byte(`{"score":0.5}`), 1e-9); err == nil || !strings.Contains(err.Error(), "$.score") {
		t.Fatalf("expected score mismatch, got %v", err)
	}
	if err := JSONEqual([]byte(`{"a":1,"b":2}`), []byte(`{"a":1}`), 0); err == nil || !strings.Contains(err.Error(), "unexpected") {
		t.Fatalf("expected unexpected key, got %v", err)
	}
	if err := JSONEqual([]byte(`{"a":[1,2]}`), []byte(`{"a":[1,2,3]}`), 0); err == nil {
		t.Fatalf("expected array length mismatch")
	}
	if err := JSONEqual([]byte(`{"a":"x"}`), []byte(`{"a":{"b":1}}`), 0); err == nil {
		t.Fatalf("expected type mismatch")
	}
	if err := JSONEqual([]byte(`not json`), []byte(`{}`), 0); err == nil {
		t.Fatalf("expected decode error")
	}
}
