package merge

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// joinText concatenates first and second with a single newline between them
// unless one side already provides it.
func joinText(first, second string) string {
	if first == "" {
		return second
	}
	if second == "" {
		return first
	}
	if strings.HasSuffix(first, "\n") || strings.HasPrefix(second, "\n") {
		return first + second
	}
	return first + "\n" + second
}

func insertAtMarker(filePath, acc string, c Contribution, after bool) (string, error) {
	start, end, err := findMarker(acc, c)
	if err != nil {
		return "", &InvalidContributionError{Path: filePath, PluginID: c.PluginID, Err: err}
	}
	if start < 0 {
		return "", &MarkerNotFoundError{Path: filePath, Marker: c.Marker}
	}

	if after {
		return acc[:end] + c.Content + acc[end:], nil
	}
	return acc[:start] + c.Content + acc[start:], nil
}

// findMarker returns the bounds of the first marker match, or -1, -1.
func findMarker(content string, c Contribution) (int, int, error) {
	if !c.MarkerRegex {
		i := strings.Index(content, c.Marker)
		if i < 0 {
			return -1, -1, nil
		}
		return i, i + len(c.Marker), nil
	}

	re, err := regexp.Compile(c.Marker)
	if err != nil {
		return -1, -1, fmt.Errorf("invalid marker pattern: %w", err)
	}
	loc := re.FindStringIndex(content)
	if loc == nil {
		return -1, -1, nil
	}
	return loc[0], loc[1], nil
}

// mergeLines is the first-seen union of the lines of acc and next. Blank
// lines in acc are kept as they are; blank lines in next are dropped.
func mergeLines(acc, next string) string {
	trailingNewline := strings.HasSuffix(acc, "\n") || strings.HasSuffix(next, "\n")

	accLines := splitLines(acc)
	seen := make(map[string]bool, len(accLines))
	out := make([]string, 0, len(accLines))
	for _, line := range accLines {
		key := strings.TrimSpace(line)
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, line)
	}

	for _, line := range splitLines(next) {
		key := strings.TrimSpace(line)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}

	merged := strings.Join(out, "\n")
	if trailingNewline && merged != "" {
		merged += "\n"
	}
	return merged
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// SectionMarkers returns the opening and closing lines that delimit a named
// section in a file at filePath. The comment syntax follows the file type.
func SectionMarkers(filePath, section string) (string, string) {
	prefix, suffix := commentSyntax(filePath)
	begin := fmt.Sprintf("%s --%s--%s", prefix, section, suffix)
	end := fmt.Sprintf("%s --end-%s--%s", prefix, section, suffix)
	return begin, end
}

func commentSyntax(filePath string) (string, string) {
	base := strings.ToLower(path.Base(filePath))
	switch ext := path.Ext(base); {
	case ext == ".md" || ext == ".html" || ext == ".xml" || ext == ".mdx":
		return "<!--", " -->"
	case ext == ".css" || ext == ".scss":
		return "/*", " */"
	case ext == ".yml" || ext == ".yaml" || ext == ".toml" || ext == ".sh" ||
		ext == ".gitignore" || ext == ".dockerignore" || ext == ".env" ||
		strings.HasPrefix(base, ".env") || base == "dockerfile" ||
		strings.HasPrefix(base, "dockerfile.") || base == ".npmrc":
		return "#", ""
	default:
		return "//", ""
	}
}

func mergeSection(filePath, acc string, c Contribution) (string, error) {
	begin, end := SectionMarkers(filePath, c.Section)
	body := c.Content
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	start := strings.Index(acc, begin)
	if start < 0 {
		block := begin + "\n" + body + end + "\n"
		return joinText(acc, block), nil
	}

	rel := strings.Index(acc[start:], end)
	if rel < 0 {
		return "", &InvalidContributionError{
			Path:     filePath,
			PluginID: c.PluginID,
			Err:      fmt.Errorf("section %q has no closing marker", c.Section),
		}
	}
	endAt := start + rel

	interiorStart := start + len(begin)
	if nl := strings.IndexByte(acc[interiorStart:endAt], '\n'); nl >= 0 {
		interiorStart += nl + 1
	}
	interiorEnd := strings.LastIndexByte(acc[:endAt], '\n') + 1
	if interiorEnd < interiorStart {
		interiorEnd = interiorStart
	}

	return acc[:interiorStart] + body + acc[interiorEnd:], nil
}
