package ioformat

import (
	"strconv"
	"strings"
)

// cmapFile is the parsed-but-not-yet-built content of a flat-text map
// file: section text, split on newlines, comments and blank lines
// already stripped.
type cmapFile struct {
	format   string
	dim      int
	nDarts   int
	betas    []string // one entry per line of [betas], length dim+1
	unused   []string // tokens of [unused], nil if absent
	vertices []string // lines of [vertices], nil if absent
}

var knownSections = map[string]bool{
	"meta": true, "betas": true, "unused": true, "vertices": true,
}

// parse splits raw flat-text content into its named sections and parses
// [meta], mirroring honeycomb-core's CMapFile::try_from (spec.md §4.10).
func parse(content string) (*cmapFile, error) {
	sections := map[string][]string{}
	order := map[string]bool{}
	current := ""

	for _, rawLine := range strings.Split(strings.TrimSpace(content), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.Contains(line, "]") {
			name := strings.ToLower(strings.Trim(line, "[]"))
			if !knownSections[name] {
				return nil, &Error{Kind: UnknownHeader, Section: name}
			}
			if order[name] {
				return nil, &Error{Kind: DuplicatedSection, Section: name}
			}
			order[name] = true
			sections[name] = nil
			current = name
			continue
		}
		if current == "" {
			continue
		}
		withoutComment := strings.TrimSpace(strings.SplitN(line, "#", 2)[0])
		if withoutComment == "" {
			continue
		}
		sections[current] = append(sections[current], withoutComment)
	}

	metaLines, ok := sections["meta"]
	if !ok {
		return nil, &Error{Kind: MissingSection, Section: "meta"}
	}
	betaLines, ok := sections["betas"]
	if !ok {
		return nil, &Error{Kind: MissingSection, Section: "betas"}
	}

	format, dim, nDarts, err := parseMeta(strings.Join(metaLines, "\n"))
	if err != nil {
		return nil, err
	}

	f := &cmapFile{format: format, dim: dim, nDarts: nDarts, betas: betaLines}
	if u, ok := sections["unused"]; ok {
		for _, line := range u {
			f.unused = append(f.unused, strings.Fields(line)...)
		}
	}
	if v, ok := sections["vertices"]; ok {
		f.vertices = v
	}
	return f, nil
}

func parseMeta(meta string) (string, int, int, error) {
	parts := strings.Fields(meta)
	if len(parts) != 3 {
		return "", 0, 0, &Error{Kind: BadMetaData, Msg: "expected 3 tokens: format, dimension, dart count"}
	}
	dim, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, &Error{Kind: BadMetaData, Msg: "could not parse dimension"}
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, &Error{Kind: BadMetaData, Msg: "could not parse dart number"}
	}
	return parts[0], dim, n, nil
}

// betaRow parses one [betas] line into n+1 dart ids.
func betaRow(line string, n int) ([]uint32, error) {
	fields := strings.Fields(line)
	if len(fields) != n+1 {
		return nil, &Error{Kind: BadValue, Section: "betas", Msg: "row length does not match dart count + 1"}
	}
	row := make([]uint32, len(fields))
	for i, tok := range fields {
		v, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, &Error{Kind: BadValue, Section: "betas", Msg: "could not parse dart id"}
		}
		row[i] = uint32(v)
	}
	return row, nil
}
