package params

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestParseKV(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantValue any
		wantErr   bool
	}{
		{name: "simple string", input: "branch=main", wantKey: "branch", wantValue: "main"},
		{name: "integer value", input: "jobs=4", wantKey: "jobs", wantValue: 4},
		{name: "float value", input: "ratio=0.5", wantKey: "ratio", wantValue: 0.5},
		{name: "boolean true", input: "secure=true", wantKey: "secure", wantValue: true},
		{name: "one is an integer", input: "flag=1", wantKey: "flag", wantValue: 1},
		{name: "empty value", input: "empty=", wantKey: "empty", wantValue: ""},
		{name: "value with equals sign", input: "runner=a=b", wantKey: "runner", wantValue: "a=b"},
		{name: "spaces around key and value", input: " key = value ", wantKey: "key", wantValue: "value"},
		{name: "missing equals sign", input: "novalue", wantErr: true},
		{name: "empty key", input: "=value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, err := ParseKV(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKV() error = %v", err)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
			if !reflect.DeepEqual(value, tt.wantValue) {
				t.Errorf("value = %#v, want %#v", value, tt.wantValue)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    any
		wantErr bool
	}{
		{
			name:    "JSON object",
			file:    "ctx.json",
			content: `{"pipeline": "ci", "attempt": 2}`,
			want:    map[string]any{"pipeline": "ci", "attempt": float64(2)},
		},
		{
			name:    "YAML object",
			file:    "ctx.yaml",
			content: "pipeline: ci\nattempt: 2\n",
			want:    map[string]any{"pipeline": "ci", "attempt": 2},
		},
		{
			name:    "YML list",
			file:    "tags.yml",
			content: "- slow\n- gpu\n",
			want:    []any{"slow", "gpu"},
		},
		{name: "invalid JSON", file: "bad.json", content: "{", wantErr: true},
		{name: "invalid YAML", file: "bad.yaml", content: "a: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := ParseFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFile() = %#v, want %#v", got, tt.want)
			}
		})
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("NBTEST", `{"root": "lessons", "jobs": 1}`)
	t.Setenv("NBTEST_JOBS", "3")
	t.Setenv("NBTEST_EXCLUDE_TAGS", "slow, gpu")

	got := ParseEnv("NBTEST")
	want := map[string]any{"root": "lessons", "jobs": 3, "exclude_tags": "slow, gpu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEnv() = %#v, want %#v", got, want)
	}

	if got := ParseEnv("NBTEST_UNSET_PREFIX"); got != nil {
		t.Errorf("ParseEnv() with nothing set = %#v, want nil", got)
	}
}

func TestParseEnvIgnoresInvalidJSON(t *testing.T) {
	t.Setenv("NBBAD", "{not json")
	if got := ParseEnv("NBBAD"); got != nil {
		t.Errorf("ParseEnv() = %#v, want nil", got)
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		sources []any
		want    any
	}{
		{
			name:    "later values override earlier",
			sources: []any{map[string]any{"a": 1, "b": 1}, map[string]any{"b": 2}},
			want:    map[string]any{"a": 1, "b": 2},
		},
		{name: "all nil", sources: []any{nil, nil}, want: nil},
		{name: "non-map value returned as-is", sources: []any{[]any{"x"}}, want: []any{"x"}},
		{
			name:    "non-map ignored if maps present",
			sources: []any{map[string]any{"a": 1}, []any{"x"}},
			want:    map[string]any{"a": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Merge(tt.sources...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuildPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(file, []byte(`{"a": "file", "b": "file", "c": "file"}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NBPREC_A", "env")
	t.Setenv("NBPREC_D", "env")

	got, err := Build("NBPREC", `{"b": "json", "c": "json"}`, []string{"c=kv"}, file)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := map[string]any{"a": "file", "b": "json", "c": "kv", "d": "env"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %#v, want %#v", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build("NBERR", "", []string{"bad"}, ""); err == nil {
		t.Error("Expected error for invalid KV pair")
	}
	if _, err := Build("NBERR", "{", nil, ""); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if _, err := Build("NBERR", "", nil, "/nonexistent/settings.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestBuildMap(t *testing.T) {
	got, err := BuildMap("NBMAP", "", nil, "")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("BuildMap() with no sources = %#v, %v", got, err)
	}
	if _, err := BuildMap("NBMAP", `[1, 2]`, nil, ""); err == nil {
		t.Error("Expected error for non-object settings")
	}
}

func TestValues(t *testing.T) {
	settings := map[string]any{
		"endpoint": "localhost:9000",
		"secure":   "false",
		"jobs":     float64(4),
		"tags":     []any{"slow", "gpu"},
		"csv":      "a, b,,c",
		"timeout":  "90s",
		"seconds":  120,
		"bad":      "soon",
	}

	if v, ok := String(settings, "endpoint"); !ok || v != "localhost:9000" {
		t.Errorf("String() = %q, %v", v, ok)
	}
	if v := StringOr(settings, "region", "us-east-1"); v != "us-east-1" {
		t.Errorf("StringOr() = %q", v)
	}
	if Bool(settings, "secure", true) {
		t.Error("Bool() should parse string false")
	}
	if v := Int(settings, "jobs", 1); v != 4 {
		t.Errorf("Int() = %d, want 4", v)
	}
	if v, _ := Strings(settings, "tags"); !reflect.DeepEqual(v, []string{"slow", "gpu"}) {
		t.Errorf("Strings(list) = %v", v)
	}
	if v, _ := Strings(settings, "csv"); !reflect.DeepEqual(v, []string{"a", "b", "c"}) {
		t.Errorf("Strings(csv) = %v", v)
	}
	if d, ok, err := Duration(settings, "timeout"); err != nil || !ok || d != 90*time.Second {
		t.Errorf("Duration(string) = %v, %v, %v", d, ok, err)
	}
	if d, _, err := Duration(settings, "seconds"); err != nil || d != 2*time.Minute {
		t.Errorf("Duration(int) = %v, %v", d, err)
	}
	if _, ok, err := Duration(settings, "missing"); ok || err != nil {
		t.Errorf("Duration(missing) = %v, %v", ok, err)
	}
	if _, _, err := Duration(settings, "bad"); err == nil {
		t.Error("Duration(bad) should fail")
	}
}
