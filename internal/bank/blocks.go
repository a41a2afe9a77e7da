package bank

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Block is one normalized unit of bank content: the text of a leaf
// block-level element plus any image references embedded in it.
type Block struct {
	Text   string
	Images []string
}

var (
	imagePattern      = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// supported bank file extensions; anything else is rejected before parsing
var supportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// ReadBlocks loads a bank file and converts it into the normalized block
// stream consumed by Parse. Unsupported file types are rejected up front.
func ReadBlocks(path string) ([]Block, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}

	return BlocksFromText(string(data)), nil
}

// BlocksFromText splits raw bank text into blocks, one per non-empty line.
// Image references are stripped from the text and collected separately, so
// an image-only line becomes an image-only block.
func BlocksFromText(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))

	for _, line := range lines {
		var images []string
		stripped := imagePattern.ReplaceAllStringFunc(line, func(match string) string {
			ref := imagePattern.FindStringSubmatch(match)[1]
			images = append(images, strings.TrimSpace(ref))
			return " "
		})

		normalized := NormalizeText(stripMarkers(stripped))
		if normalized == "" && len(images) == 0 {
			continue
		}
		blocks = append(blocks, Block{Text: normalized, Images: images})
	}

	return blocks
}

// NormalizeText collapses runs of whitespace, converts non-breaking spaces
// to regular spaces, and trims the result.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripMarkers removes leading markdown heading and list markers so that
// headings and list items read as plain block text.
func stripMarkers(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return strings.TrimLeft(trimmed, "#")
	}
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		return trimmed[2:]
	}
	return line
}
