package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/source"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestForPath(t *testing.T) {
	cases := map[string]string{
		"a.json":  "json",
		"a.JSONL": "json",
		"a.yaml":  "yaml",
		"b/c.yml": "yaml",
	}
	for path, want := range cases {
		d, err := source.ForPath(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if d.Name() != want {
			t.Fatalf("%s: expected %s, got %s", path, want, d.Name())
		}
	}
	if _, err := source.ForPath("a.csv"); err == nil {
		t.Fatalf("expected no driver for .csv")
	}
}

func TestReadRecords(t *testing.T) {
	jsonl := write(t, "friends.jsonl", "{\"name\":\"Ross\"}\n{\"name\":\"Rachel\"}\n")
	yml := write(t, "friends.yaml", "- name: Ross\n- name: Rachel\n- name: Joey\n")

	for path, n := range map[string]int{jsonl: 2, yml: 3} {
		nodes, err := source.ReadRecords(path, ioschema.DefaultParseOpt())
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if len(nodes) != n {
			t.Fatalf("%s: expected %d records, got %d", path, n, len(nodes))
		}
	}

	bad := write(t, "dup.json", `{"a":1,"a":2}`)
	_, err := source.ReadRecords(bad, ioschema.DefaultParseOpt())
	if iss, ok := ioschema.AsIssues(err); !ok || iss[0].Path != "a" {
		t.Fatalf("expected a duplicate key issue through the file error, got %v", err)
	}
}

func TestSetDriver(t *testing.T) {
	source.SetDriver(".conf", source.YAML())
	defer source.SetDriver(".conf", nil)

	if d, err := source.ForPath("app.conf"); err != nil || d.Name() != "yaml" {
		t.Fatalf("got %v, %v", d, err)
	}
	want := []string{".conf", ".json", ".jsonl", ".yaml", ".yml"}
	if diff := cmp.Diff(want, source.Extensions()); diff != "" {
		t.Fatalf("extensions (-want +got):\n%s", diff)
	}
}
