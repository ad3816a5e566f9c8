package extractor

import (
	"errors"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	for _, name := range []string{"notes.pdf", "notes.txt", "README.md", "thesis.DOCX", "grades.xlsx", "data.ods"} {
		if !Supported(name) {
			t.Errorf("Supported(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"photo.png", "archive.zip", "noext", "slides.pptx"} {
		if Supported(name) {
			t.Errorf("Supported(%q) = true, want false", name)
		}
	}
}

func TestExtractText(t *testing.T) {
	content := "Photosynthesis converts light energy into chemical energy.\nThe reaction takes place in chloroplasts."
	pages, err := Extract([]byte(content), "notes.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 1 || pages[0].Number != 1 {
		t.Fatalf("pages = %+v", pages)
	}
	if !strings.Contains(pages[0].Text, "chloroplasts") {
		t.Errorf("text lost content: %q", pages[0].Text)
	}
}

func TestExtractMarkdownStripsFormatting(t *testing.T) {
	content := "# Cell Biology\n\nThe **mitochondria** is the powerhouse of the cell.\n\n- produces ATP\n- has its own DNA\n"
	pages, err := Extract([]byte(content), "notes.md")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	text := pages[0].Text
	if strings.Contains(text, "**") || strings.Contains(text, "# ") {
		t.Errorf("markdown syntax survived: %q", text)
	}
	if !strings.Contains(text, "powerhouse of the cell") {
		t.Errorf("content lost: %q", text)
	}
}

func TestExtractUnsupported(t *testing.T) {
	_, err := Extract([]byte("data"), "image.png")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("not a pdf at all"), "broken.pdf")
	if err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

func TestExtractEmptyFile(t *testing.T) {
	_, err := Extract(nil, "empty.txt")
	if !errors.Is(err, ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "keeps content lines",
			in:   "The cell membrane controls what enters the cell.",
			want: "The cell membrane controls what enters the cell.",
		},
		{
			name: "drops page markers",
			in:   "[Page 3] The nucleus stores genetic material.",
			want: "The nucleus stores genetic material.",
		},
		{
			name: "drops page-of footers",
			in:   "Mitosis has four phases. Page 3 of 12",
			want: "Mitosis has four phases.",
		},
		{
			name: "drops bare page numbers",
			in:   "Enzymes lower activation energy.\n42\nThey are not consumed.",
			want: "Enzymes lower activation energy.\nThey are not consumed.",
		},
		{
			name: "drops short fragments",
			in:   "ab\nProteins are chains of amino acids.",
			want: "Proteins are chains of amino acids.",
		},
		{
			name: "drops decoration lines",
			in:   "==================\nDNA replication is semiconservative.",
			want: "DNA replication is semiconservative.",
		},
		{
			name: "normalizes smart quotes",
			in:   "The term “cell” comes from Hooke’s observations.",
			want: "The term \"cell\" comes from Hooke's observations.",
		},
		{
			name: "collapses whitespace",
			in:   "Osmosis  is    passive \t transport.",
			want: "Osmosis is passive transport.",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAlphaRatio(t *testing.T) {
	if r := AlphaRatio("abcd"); r != 1 {
		t.Errorf("AlphaRatio(letters) = %v, want 1", r)
	}
	if r := AlphaRatio("1234"); r != 0 {
		t.Errorf("AlphaRatio(digits) = %v, want 0", r)
	}
	if r := AlphaRatio(""); r != 0 {
		t.Errorf("AlphaRatio(empty) = %v, want 0", r)
	}
}
