package encoding

import "testing"

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello World", "Hello World"},
		{"ampersand", "Profit & Loss", "Profit &amp; Loss"},
		{"less than", "a < b", "a &lt; b"},
		{"greater than", "a > b", "a &gt; b"},
		{"quotes preserved", `He said "hello"`, `He said "hello"`},
		{"all three", "<script>&</script>", "&lt;script&gt;&amp;&lt;/script&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLText(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"quotes", `a "b" c`, "a &quot;b&quot; c"},
		{"entities and quotes", `<a href="x&y">`, "&lt;a href=&quot;x&amp;y&quot;&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLAttr(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLAttr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeJSONForScript(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no specials", `{"a":"b"}`, `{"a":"b"}`},
		{"less than", `{"v":"1 < 2"}`, `{"v":"1 \u003C 2"}`},
		{"greater than", `{"v":"2 > 1"}`, `{"v":"2 \u003E 1"}`},
		{"ampersand", `{"v":"P & L"}`, `{"v":"P \u0026 L"}`},
		{"script close tag", `{"v":"</script>"}`, `{"v":"\u003C/script\u003E"}`},
		{"all three", `<>&`, `\u003C\u003E\u0026`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeJSONForScript(tt.input)
			if got != tt.want {
				t.Errorf("EscapeJSONForScript(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
