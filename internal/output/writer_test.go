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

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sirseerhq/cdr-relay/internal/cdr"
	relayerrors "github.com/sirseerhq/cdr-relay/internal/errors"
	"github.com/sirseerhq/cdr-relay/test/testutil"
)

var (
	_ RecordWriter = (*CSVWriter)(nil)
	_ RecordWriter = (*JSONWriter)(nil)
)

func parseRecords(t *testing.T, objects ...string) []cdr.Record {
	t.Helper()
	out := make([]cdr.Record, 0, len(objects))
	for _, obj := range objects {
		var r cdr.Record
		if err := json.Unmarshal([]byte(obj), &r); err != nil {
			t.Fatalf("bad test record %s: %v", obj, err)
		}
		out = append(out, r)
	}
	return out
}

func TestCSVWriter_HeaderFromFirstRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	page1 := parseRecords(t,
		`{"dr_sid":"a","date_stop":"2024-01-01T00:00:01Z","duration":12}`,
		`{"duration":7,"dr_sid":"b","date_stop":"2024-01-01T00:00:02Z"}`,
	)
	page2 := parseRecords(t,
		`{"dr_sid":"c","extra":"ignored"}`,
	)

	if err := w.Write(page1); err != nil {
		t.Fatalf("Write page1: %v", err)
	}
	if err := w.Write(page2); err != nil {
		t.Fatalf("Write page2: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "dr_sid,date_stop,duration\n" +
		"a,2024-01-01T00:00:01Z,12\n" +
		"b,2024-01-01T00:00:02Z,7\n" +
		"c,,\n"
	if got := buf.String(); got != want {
		t.Errorf("CSV output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if w.Count() != 3 {
		t.Errorf("Count() = %d, want 3", w.Count())
	}
	if diff := cmp.Diff([]string{"dr_sid", "date_stop", "duration"}, w.Header()); diff != "" {
		t.Errorf("Header() (-want +got):\n%s", diff)
	}
}

func TestCSVWriter_ValueFormatting(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	recs := parseRecords(t,
		`{"text":"has, comma","quote":"say \"hi\"","null":null,"bool":true,"obj":{"k":[1,2]},"multi":"a\nb"}`,
	)
	if err := w.Write(recs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "text,quote,null,bool,obj,multi\n" +
		`"has, comma","say ""hi""",,true,"{""k"":[1,2]}","a` + "\n" + `b"` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("CSV output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestCSVWriter_EmptyPagesWriteNothing(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	if err := w.Write(nil); err != nil {
		t.Fatalf("Write(nil): %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
	if w.Header() != nil {
		t.Errorf("Header() = %v, want nil", w.Header())
	}
}

func TestCSVWriter_WriteAfterClose(t *testing.T) {
	w := NewCSVWriter(&bytes.Buffer{})
	_ = w.Close()
	if err := w.Write(parseRecords(t, `{"a":1}`)); err == nil {
		t.Error("expected error writing to a closed writer")
	}
}

func TestCSVFileWriter_AbortKeepsFlushedPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdrs.csv")

	w, err := NewCSVFileWriter(path)
	if err != nil {
		t.Fatalf("NewCSVFileWriter: %v", err)
	}
	if err := w.Write(parseRecords(t, `{"a":1,"b":2}`, `{"a":3,"b":4}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// The page is on disk before the writer is closed.
	testutil.AssertFileContains(t, path, "a,b\n1,2\n3,4\n")

	if err := w.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	testutil.AssertFileContains(t, path, "a,b\n1,2\n3,4\n")
}

func TestCSVFileWriter_CreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	w, err := NewFileWriter(path, FormatCSV)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	testutil.AssertFileContains(t, path, "")
}

func TestNewCSVFileWriter_Error(t *testing.T) {
	_, err := NewCSVFileWriter("/non/existent/path/test.csv")
	if err == nil {
		t.Error("Expected error for non-existent directory, got nil")
	}
}

func TestJSONWriter_PrettyArray(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	if err := w.Write(parseRecords(t, `{"z":1,"a":"x"}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(parseRecords(t, `{"n":null,"o":{"k":true}}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := `[
  {
    "z": 1,
    "a": "x"
  },
  {
    "n": null,
    "o": {
      "k": true
    }
  }
]
`
	if got := buf.String(); got != want {
		t.Errorf("JSON output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
}

func TestJSONWriter_KeepsHTMLCharacters(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	if err := w.Write(parseRecords(t, `{"url":"https://x/?a=1&b=<2>"}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "[\n  {\n    \"url\": \"https://x/?a=1&b=<2>\"\n  }\n]\n"
	if got := buf.String(); got != want {
		t.Errorf("JSON output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestJSONWriter_EmptyRunWritesEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	if err := w.Write(nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("output = %q, want %q", got, "[]\n")
	}
}

func TestJSONFileWriter_NothingOnDiskUntilClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdrs.json")

	w, err := NewFileWriter(path, FormatJSON)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := w.Write(parseRecords(t, `{"a":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	testutil.AssertFileNotExists(t, path)

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var got []map[string]any
	testutil.ReadJSON(t, path, &got)
	if len(got) != 1 || got[0]["a"] != float64(1) {
		t.Errorf("file content = %v", got)
	}

	leftovers, _ := filepath.Glob(path + ".*.tmp")
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("file mode = %o, want 644", perm)
	}
}

func TestJSONFileWriter_LeavesNeighbouringTmpFileAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cdrs.json")
	neighbour := path + ".tmp"
	if err := os.WriteFile(neighbour, []byte("user data"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewJSONFileWriter(path)
	if err := w.Write(parseRecords(t, `{"a":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	testutil.AssertFileContains(t, neighbour, "user data")
	testutil.AssertFileExists(t, path)
}

func TestJSONFileWriter_AbortLeavesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdrs.json")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewJSONFileWriter(path)
	if err := w.Write(parseRecords(t, `{"a":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close after Abort: %v", err)
	}

	testutil.AssertFileContains(t, path, "previous")
}

func TestNewFileWriter_UnknownFormat(t *testing.T) {
	if _, err := NewFileWriter(filepath.Join(t.TempDir(), "x"), Format("xml")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"ndjson", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, relayerrors.ErrInvalidFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrInvalidFormat", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatFlagValue(t *testing.T) {
	var f Format
	if f.String() != "csv" {
		t.Errorf("zero Format String() = %q, want csv", f.String())
	}
	if err := f.Set("json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if f != FormatJSON || f.Type() != "format" {
		t.Errorf("after Set: %q %q", f, f.Type())
	}
	if err := f.Set("xml"); err == nil {
		t.Error("expected Set(xml) to fail")
	}
	if f != FormatJSON {
		t.Errorf("failed Set changed value to %q", f)
	}
}

func TestCheckDestination(t *testing.T) {
	dir := t.TempDir()
	existing := testutil.CreateTempFile(t, dir, "existing-*.csv", "keep me")

	tests := []struct {
		name      string
		path      string
		overwrite bool
		wantErr   error
		wantText  string
	}{
		{name: "new file", path: filepath.Join(dir, "new.csv")},
		{name: "existing with overwrite", path: existing, overwrite: true},
		{name: "existing without overwrite", path: existing, wantErr: relayerrors.ErrOutputExists},
		{name: "missing directory", path: filepath.Join(dir, "nope", "out.csv"), wantErr: relayerrors.ErrOutputDirMissing},
		{name: "parent is a file", path: filepath.Join(existing, "out.csv"), wantErr: relayerrors.ErrOutputDirMissing},
		{name: "path is a directory", path: dir, overwrite: true, wantText: "is a directory"},
		{name: "empty path", path: "", wantText: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDestination(tt.path, tt.overwrite)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantText != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantText) {
					t.Errorf("error = %v, want containing %q", err, tt.wantText)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}

	testutil.AssertFileContains(t, existing, "keep me")
}
