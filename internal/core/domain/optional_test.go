package domain

import (
	"encoding/json"
	"testing"
)

func TestOptional_UnmarshalPresence(t *testing.T) {
	var body struct {
		Name   Optional[string] `json:"name"`
		Status Optional[bool]   `json:"status"`
		Count  Optional[int]    `json:"count"`
		Avatar Optional[string] `json:"avatar"`
	}
	if err := json.Unmarshal([]byte(`{"name":"","status":false,"avatar":null}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !body.Name.Set || body.Name.Value != "" {
		t.Errorf("explicit empty string must be set: %+v", body.Name)
	}
	if !body.Status.Set || body.Status.Value {
		t.Errorf("explicit false must be set: %+v", body.Status)
	}
	if body.Count.Set {
		t.Errorf("omitted field must be unset: %+v", body.Count)
	}
	if body.Avatar.Set {
		t.Errorf("null must be treated as omitted: %+v", body.Avatar)
	}
}

func TestOptional_UnmarshalTypeMismatch(t *testing.T) {
	var body struct {
		Count Optional[int] `json:"count"`
	}
	if err := json.Unmarshal([]byte(`{"count":"ten"}`), &body); err == nil {
		t.Fatal("expected error for mistyped value")
	}
}

func TestOptional_Marshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[string] `json:"a"`
		B Optional[int]    `json:"b"`
	}{A: Some("x")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":"x","b":null}` {
		t.Errorf("unexpected json %s", out)
	}
}

func TestUserPatch_IsEmpty(t *testing.T) {
	if !(UserPatch{}).IsEmpty() {
		t.Error("zero patch must be empty")
	}
	if (UserPatch{Status: Some(false)}).IsEmpty() {
		t.Error("patch with status set must not be empty")
	}
}
