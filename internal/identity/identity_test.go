package identity

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{
			name:  "canonical form",
			input: "org.slf4j:slf4j-api:1.7.36",
			want:  ID{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "1.7.36"},
		},
		{
			name:  "version with qualifier",
			input: "com.acme:core:2.0.0-SNAPSHOT",
			want:  ID{GroupID: "com.acme", ArtifactID: "core", Version: "2.0.0-SNAPSHOT"},
		},
		{name: "two fields", input: "org.slf4j:slf4j-api", wantErr: true},
		{name: "four fields", input: "a:b:c:d", wantErr: true},
		{name: "empty group", input: ":b:1.0", wantErr: true},
		{name: "empty version", input: "a:b:", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "field with override separator", input: "a:b--c:1.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrMalformedKey) {
					t.Errorf("Parse(%q) error = %v, want ErrMalformedKey", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOverrideKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{
			name:  "double dash form",
			input: "org.apache.commons--commons-lang3--3.12.0",
			want:  MustNew("org.apache.commons", "commons-lang3", "3.12.0"),
		},
		{
			name:  "canonical form is accepted too",
			input: "org.apache.commons:commons-lang3:3.12.0",
			want:  MustNew("org.apache.commons", "commons-lang3", "3.12.0"),
		},
		{name: "one separator", input: "org.apache.commons--commons-lang3", wantErr: true},
		{name: "three separators", input: "a--b--c--d", wantErr: true},
		{name: "single dash is not a separator", input: "a-b-c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOverrideKey(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedKey) {
					t.Fatalf("ParseOverrideKey(%q) error = %v, want ErrMalformedKey", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOverrideKey(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseOverrideKey(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	ids := []ID{
		MustNew("org.slf4j", "slf4j-api", "1.7.36"),
		MustNew("com.google.guava", "guava", "33.0.0-jre"),
		MustNew("a", "b", "c"),
		MustNew("io.netty", "netty-all", "4.1.100.Final"),
	}

	for _, id := range ids {
		t.Run(id.String(), func(t *testing.T) {
			key := strings.ReplaceAll(id.String(), Separator, OverrideSeparator)
			if key != id.OverrideKey() {
				t.Errorf("OverrideKey() = %q, want %q", id.OverrideKey(), key)
			}
			got, err := ParseOverrideKey(key)
			if err != nil {
				t.Fatalf("ParseOverrideKey(%q) error: %v", key, err)
			}
			if got != id {
				t.Errorf("round trip = %+v, want %+v", got, id)
			}
			back, err := Parse(id.String())
			if err != nil || back != id {
				t.Errorf("Parse(String()) = %+v, %v", back, err)
			}
		})
	}
}

func TestNew_RejectsSeparators(t *testing.T) {
	cases := [][3]string{
		{"org:x", "a", "1"},
		{"org", "a--b", "1"},
		{"org", "a", "1--2"},
		{"org", "", "1"},
	}
	for _, c := range cases {
		if _, err := New(c[0], c[1], c[2]); !errors.Is(err, ErrMalformedKey) {
			t.Errorf("New(%q, %q, %q) error = %v, want ErrMalformedKey", c[0], c[1], c[2], err)
		}
	}
}

func TestSort(t *testing.T) {
	ids := []ID{
		MustNew("org.b", "x", "1"),
		MustNew("com.a", "y", "2"),
		MustNew("org.b", "a", "1"),
	}
	Sort(ids)

	want := []string{"com.a:y:2", "org.b:a:1", "org.b:x:1"}
	for i, id := range ids {
		if id.String() != want[i] {
			t.Errorf("Sort()[%d] = %s, want %s", i, id, want[i])
		}
	}
}

func TestID_TextMarshaling(t *testing.T) {
	id := MustNew("org.slf4j", "slf4j-api", "1.7.36")

	text, err := id.MarshalText()
	if err != nil || string(text) != "org.slf4j:slf4j-api:1.7.36" {
		t.Fatalf("MarshalText() = %q, %v", text, err)
	}

	var back ID
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if back != id {
		t.Errorf("UnmarshalText() = %+v, want %+v", back, id)
	}

	if err := back.UnmarshalText([]byte("broken")); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("UnmarshalText(broken) error = %v, want ErrMalformedKey", err)
	}
}
