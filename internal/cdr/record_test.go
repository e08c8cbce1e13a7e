// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cdr

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordPreservesKeyOrder(t *testing.T) {
	data := `{"dr_sid":"a1","date_stop":"2024-01-01T00:00:10.000Z","duration":10.5,"b":null,"a":true}`

	var r Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := []string{"dr_sid", "date_stop", "duration", "b", "a"}
	if diff := cmp.Diff(want, r.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
}

func TestRecordRoundTripKeepsOrder(t *testing.T) {
	data := `{"zeta":1,"alpha":"x","mid":{"nested":[1,2]}}`

	var r Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != data {
		t.Errorf("Marshal = %s, want %s", out, data)
	}
}

func TestRecordInSlice(t *testing.T) {
	var items []Record
	if err := json.Unmarshal([]byte(`[{"b":1,"a":2},{"c":3}]`), &items); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if diff := cmp.Diff([]string{"b", "a"}, items[0].Keys()); diff != "" {
		t.Errorf("first record keys (-want +got):\n%s", diff)
	}
}

func TestRecordRejectsNonObject(t *testing.T) {
	for _, input := range []string{`[1,2]`, `"text"`, `42`} {
		var r Record
		if err := json.Unmarshal([]byte(input), &r); err == nil {
			t.Errorf("Unmarshal(%s) expected error", input)
		}
	}
}

func TestZeroRecord(t *testing.T) {
	var r Record
	if r.Len() != 0 || r.Keys() != nil {
		t.Error("zero record should be empty")
	}
	if _, ok := r.Get("x"); ok {
		t.Error("Get on zero record should miss")
	}
	out, err := json.Marshal(r)
	if err != nil || string(out) != "{}" {
		t.Errorf("Marshal(zero) = %s, %v", out, err)
	}
}

func TestRecordNullInSlice(t *testing.T) {
	var items []Record
	if err := json.Unmarshal([]byte(`[{"a":1},null,{}]`), &items); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].IsNull() {
		t.Error("first record should not be null")
	}
	if !items[1].IsNull() || items[1].Len() != 0 {
		t.Error("second record should be null and empty")
	}
	if items[2].IsNull() || items[2].Len() != 0 {
		t.Error("{} should decode to an empty, non-null record")
	}
}

func TestRecordMarshalDoesNotEscapeHTML(t *testing.T) {
	data := `{"url":"https://x/?a=1&b=<2>","n":1,"obj":{"q":"a&b"}}`

	var r Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	out, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(out) != data {
		t.Errorf("MarshalJSON = %s, want %s", out, data)
	}
}

func TestRecordMarshalEmptyValueAsNull(t *testing.T) {
	r := NewRecord()
	r.Set("a", nil)
	r.Set("b", json.RawMessage(`"x"`))

	out, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(out) != `{"a":null,"b":"x"}` {
		t.Errorf("MarshalJSON = %s", out)
	}
}

func TestSet(t *testing.T) {
	r := NewRecord()
	r.Set("first", json.RawMessage(`1`))
	r.Set("second", json.RawMessage(`"two"`))
	r.Set("first", json.RawMessage(`3`))

	if diff := cmp.Diff([]string{"first", "second"}, r.Keys()); diff != "" {
		t.Errorf("Keys() (-want +got):\n%s", diff)
	}
	if got := r.String("first"); got != "3" {
		t.Errorf("String(first) = %q, want 3", got)
	}
	if got := r.String("second"); got != "two" {
		t.Errorf("String(second) = %q, want two", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"hello"`, "hello"},
		{"escaped string", `"a \"quoted\" é"`, `a "quoted" é`},
		{"integer", `15551234567`, "15551234567"},
		{"float", `0.0125`, "0.0125"},
		{"bool", `false`, "false"},
		{"null", `null`, ""},
		{"missing", ``, ""},
		{"object", `{ "a" : 1 }`, `{"a":1}`},
		{"array", `[ "x", 2 ]`, `["x",2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("FormatValue(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
