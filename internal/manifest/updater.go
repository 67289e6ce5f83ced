package manifest

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/simpl/internal/errors"
)

// AddSourceFiles returns manifest text in which every file of files that is
// not yet listed under files: is appended to the end of that run. When the
// manifest has no files: section one is added at the end. The remaining
// text is kept byte for byte. It also returns the entries that were added.
func AddSourceFiles(manifestPath string, data []byte, files []string) ([]byte, []string, error) {
	text := string(data)
	lines := Tokenize(text)

	headerIdx := -1
	for i, line := range lines {
		if line.Kind == LineSection && line.Key == sectionFiles {
			if headerIdx >= 0 {
				return nil, nil, errors.NewMalformedManifest(manifestPath, line.Number, "duplicate files: section")
			}
			headerIdx = i
		}
	}

	listed := make(map[string]bool)
	last := headerIdx
	if headerIdx >= 0 {
		for i := headerIdx + 1; i < len(lines) && lines[i].Kind == LineItem; i++ {
			listed[cleanEntry(lines[i].Value)] = true
			last = i
		}
	}

	var added []string
	for _, f := range files {
		key := cleanEntry(f)
		if listed[key] {
			continue
		}
		listed[key] = true
		added = append(added, filepath.ToSlash(f))
	}
	if len(added) == 0 {
		return data, nil, nil
	}

	var items strings.Builder
	for _, f := range added {
		items.WriteString("- " + f + "\n")
	}

	if headerIdx < 0 {
		var b strings.Builder
		b.WriteString(text)
		if text != "" && !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(sectionFiles + ":\n")
		b.WriteString(items.String())
		return []byte(b.String()), added, nil
	}

	// Insert after line number lines[last].Number.
	offset := lineEnd(text, lines[last].Number)
	var b strings.Builder
	b.WriteString(text[:offset])
	if offset == len(text) && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(items.String())
	b.WriteString(text[offset:])
	return []byte(b.String()), added, nil
}

// lineEnd returns the byte offset just past the terminator of the 1-based
// line n, or len(text) when that line is the last one.
func lineEnd(text string, n int) int {
	offset := 0
	for i := 0; i < n; i++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
	}
	return offset
}

func cleanEntry(p string) string {
	return path.Clean(filepath.ToSlash(strings.TrimSpace(p)))
}
