package ostree

import "testing"

func TestObjectTypeString(t *testing.T) {
	tests := []struct {
		typ  ObjectType
		want string
	}{
		{ObjectTypeFile, "file"},
		{ObjectTypeDirTree, "dirtree"},
		{ObjectTypeDirMeta, "dirmeta"},
		{ObjectTypeCommit, "commit"},
		{ObjectTypeTombstoneCommit, "tombstone-commit"},
		{ObjectTypeCommitMeta, "commitmeta"},
		{ObjectTypePayloadLink, "payload-link"},
		{ObjectType(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseObjectName(t *testing.T) {
	const sum = "e4ca24b0f62ba8d8e29b4e39d2174d1a1406f4aff694a9c3a1e4d9e2b9c9f1a0"

	tests := []struct {
		name     string
		input    string
		checksum string
		typ      ObjectType
		wantErr  bool
	}{
		{"commit", sum + ".commit", sum, ObjectTypeCommit, false},
		{"file", sum + ".file", sum, ObjectTypeFile, false},
		{"compressed file", sum + ".filez", sum, ObjectTypeFile, false},
		{"dirtree", sum + ".dirtree", sum, ObjectTypeDirTree, false},
		{"no separator", sum, "", 0, true},
		{"empty suffix", sum + ".", "", 0, true},
		{"unknown suffix", sum + ".blob", "", 0, true},
		{"empty", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checksum, typ, err := ParseObjectName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseObjectName(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseObjectName(%q): %v", tt.input, err)
			}
			if checksum != tt.checksum || typ != tt.typ {
				t.Errorf("got (%q, %v), want (%q, %v)", checksum, typ, tt.checksum, tt.typ)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	const sum = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	for typ := range objectTypeNames {
		name := FormatObjectName(sum, typ)
		checksum, parsed, err := ParseObjectName(name)
		if err != nil {
			t.Fatalf("round trip of %v: %v", typ, err)
		}
		if checksum != sum || parsed != typ {
			t.Errorf("round trip of %v: got (%q, %v)", typ, checksum, parsed)
		}
	}
}
