// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

// storedJob mirrors the shape of a persisted job record: json tags
// only, relying on fxamacker's fallback for CBOR key names.
type storedJob struct {
	Name     string   `json:"name"`
	Schedule string   `json:"schedule"`
	Command  []string `json:"command,omitempty"`
	Minutes  []int    `json:"minutes"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := storedJob{
		Name:     "rotate-logs",
		Schedule: "0 */15 * * * *",
		Command:  []string{"logrotate", "/etc/logrotate.conf"},
		Minutes:  []int{0, 15, 30, 45},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded storedJob
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Name != original.Name || decoded.Schedule != original.Schedule ||
		!slices.Equal(decoded.Command, original.Command) || !slices.Equal(decoded.Minutes, original.Minutes) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Map iteration order is random; deterministic encoding sorts keys.
	value := map[string][]int{"second": {0}, "minute": {5}, "hour": {9}, "day": {1}}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestEmptyAndNilSlicesDiffer(t *testing.T) {
	// Callers that hash encoded values must normalize nil to empty
	// themselves: CBOR encodes nil as null and empty as an empty array.
	nilData, err := Marshal([]int(nil))
	if err != nil {
		t.Fatal(err)
	}
	emptyData, err := Marshal([]int{})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(nilData, emptyData) {
		t.Errorf("nil and empty slices encoded identically: %x", nilData)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var job storedJob
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &job); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestUnmarshalRejectsDuplicateKeys(t *testing.T) {
	// {"name": "a", "name": "b"}
	data := []byte{0xA2, 0x64, 'n', 'a', 'm', 'e', 0x61, 'a', 0x64, 'n', 'a', 'm', 'e', 0x61, 'b'}
	var job storedJob
	if err := Unmarshal(data, &job); err == nil {
		t.Errorf("Unmarshal accepted duplicate map key, decoded %+v", job)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(storedJob{Name: "backup", Schedule: "0 0 3 * * *"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	for _, want := range []string{`"name"`, `"backup"`, `"schedule"`} {
		if !strings.Contains(notation, want) {
			t.Errorf("notation %q does not contain %s", notation, want)
		}
	}
}

func BenchmarkMarshal(b *testing.B) {
	job := storedJob{
		Name:     "rotate-logs",
		Schedule: "0 */15 * * * *",
		Minutes:  []int{0, 15, 30, 45},
	}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(job)
	}
}
