package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"empty file", "", 0},
		{"single line no newline", "abc", 1},
		{"single line with newline", "abc\n", 1},
		{"three lines", "a\nb\nc", 3},
		{"three lines trailing newline", "a\nb\nc\n", 3},
		{"lone newline", "\n", 1},
		{"blank line in the middle", "a\n\nb", 3},
		{"crlf endings", "a\r\nb\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countLines([]byte(tt.data)); got != tt.want {
				t.Errorf("countLines(%q) = %d, want %d", tt.data, got, tt.want)
			}
		})
	}
}

// TestProcessFile tests reading, truncation, and the drop semantics for
// unreadable content
func TestProcessFile(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return path
	}

	t.Run("small text file keeps full content", func(t *testing.T) {
		path := writeFile("main.rs", []byte("fn main() {}\nfn helper() {}\n"))

		res, ok := processFile(path)
		if !ok {
			t.Fatal("Expected ok for readable text file")
		}
		if res.lines != 2 {
			t.Errorf("Expected 2 lines, got %d", res.lines)
		}
		if res.language != "Rust" {
			t.Errorf("Expected Rust, got %q", res.language)
		}
		if res.record == nil {
			t.Fatal("Expected content to be retained")
		}
		if res.record.Content != "fn main() {}\nfn helper() {}\n" {
			t.Errorf("Content mismatch: %q", res.record.Content)
		}
		if res.record.Size != 28 {
			t.Errorf("Expected size 28, got %d", res.record.Size)
		}
	})

	t.Run("long file is truncated with a marker", func(t *testing.T) {
		line := strings.Repeat("x", 99) + "\n" // 100 bytes per line
		path := writeFile("big.py", []byte(strings.Repeat(line, 70)))

		res, ok := processFile(path)
		if !ok {
			t.Fatal("Expected ok")
		}
		if res.record == nil {
			t.Fatal("Expected content to be retained below the size ceiling")
		}
		if !strings.HasSuffix(res.record.Content, truncationMark) {
			t.Error("Expected truncation marker suffix")
		}
		if len(res.record.Content) != contentLimit+len(truncationMark) {
			t.Errorf("Expected %d content bytes, got %d",
				contentLimit+len(truncationMark), len(res.record.Content))
		}
		if res.lines != 70 {
			t.Errorf("Line count must cover the whole file, got %d", res.lines)
		}
		if res.record.Size != 7000 {
			t.Errorf("Size must cover the whole file, got %d", res.record.Size)
		}
	})

	t.Run("oversized file counts but keeps no content", func(t *testing.T) {
		path := writeFile("huge.js", []byte(strings.Repeat("a\n", maxContentBytes/2)))

		res, ok := processFile(path)
		if !ok {
			t.Fatal("Expected ok for oversized but readable file")
		}
		if res.record != nil {
			t.Error("Expected no retained content at the size ceiling")
		}
		if res.lines != maxContentBytes/2 {
			t.Errorf("Expected %d lines, got %d", maxContentBytes/2, res.lines)
		}
		if res.language != "JavaScript" {
			t.Errorf("Expected JavaScript, got %q", res.language)
		}
	})

	t.Run("non-text content is dropped", func(t *testing.T) {
		path := writeFile("blob", []byte{0xff, 0xfe, 0x00, 0x9f, 0x92, 0x96})

		if _, ok := processFile(path); ok {
			t.Error("Expected non-UTF8 content to be dropped")
		}
	})

	t.Run("missing file is dropped", func(t *testing.T) {
		if _, ok := processFile(filepath.Join(dir, "nope.go")); ok {
			t.Error("Expected missing file to be dropped")
		}
	})
}
