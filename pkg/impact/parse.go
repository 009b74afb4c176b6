package impact

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// PrettyFormat is the git pretty format producing the header layout this
// package parses. A complete stream is obtained with
//
//	git log --all --pretty=format:'%x01%H%x1e%aI%x1e%ae%x1e%an%x02' --numstat -z
//
// and handed over via file or pipe; this package never runs git itself.
const PrettyFormat = "%x01%H%x1e%aI%x1e%ae%x1e%an%x02"

// Stream delimiters, chosen to never collide with path or author bytes.
const (
	recordStart    = "\x01"
	headerFieldSep = "\x1e"
	headerBodySep  = "\x02"
	entrySep       = "\x00"
)

// headerFieldCount is hash, author date, author email and author name.
const headerFieldCount = 4

// numstatDateLayout is the %ai spelling of an author date, accepted as a
// fallback next to the RFC 3339 %aI form.
const numstatDateLayout = "2006-01-02 15:04:05 -0700"

// ParseLog splits a raw log stream into commit records. Structural
// damage, a broken header or a torn numstat entry, fails the whole call
// with a RecordError naming the block; non-numeric line counts are not
// damage and come back as Binary deltas.
func ParseLog(raw string) ([]Commit, error) {
	blocks := strings.Split(raw, recordStart)

	if strings.TrimSpace(blocks[0]) != "" {
		return nil, recordErrorf(0, "content before the first record marker")
	}

	commits := make([]Commit, 0, len(blocks)-1)

	for i, block := range blocks[1:] {
		commit, err := parseBlock(i+1, block)
		if err != nil {
			return nil, err
		}

		commits = append(commits, commit)
	}

	return commits, nil
}

// ReadLog reads the remainder of r and parses it as a log stream.
func ReadLog(r io.Reader) ([]Commit, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read log stream: %w", err)
	}

	return ParseLog(string(raw))
}

func parseBlock(index int, block string) (Commit, error) {
	header, body, found := strings.Cut(block, headerBodySep)
	if !found {
		return Commit{}, recordErrorf(index, "missing header terminator")
	}

	fields := strings.Split(header, headerFieldSep)
	if len(fields) != headerFieldCount {
		return Commit{}, recordErrorf(index, "header has %d fields, want %d", len(fields), headerFieldCount)
	}

	date, err := parseAuthorDate(fields[1])
	if err != nil {
		return Commit{}, recordErrorf(index, "bad author date %q: %v", fields[1], err)
	}

	deltas, err := parseBody(index, body)
	if err != nil {
		return Commit{}, err
	}

	return Commit{
		Hash:        fields[0],
		Date:        date,
		AuthorEmail: fields[2],
		AuthorName:  fields[3],
		Deltas:      deltas,
	}, nil
}

func parseAuthorDate(s string) (time.Time, error) {
	date, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return date, nil
	}

	return time.Parse(numstatDateLayout, s)
}

// parseBody walks the NUL-separated numstat entries of one block. A
// triple with an empty path is a rename: the two entries after it carry
// the old and the new path, and the change is charged to the new one.
func parseBody(index int, body string) ([]Delta, error) {
	entries := strings.Split(body, entrySep)

	var deltas []Delta

	for i := 0; i < len(entries); i++ {
		entry := strings.Trim(entries[i], "\r\n")
		if entry == "" {
			continue
		}

		insField, rest, ok := strings.Cut(entry, "\t")
		if !ok {
			return nil, recordErrorf(index, "numstat entry %q has no count separator", entry)
		}

		delField, path, ok := strings.Cut(rest, "\t")
		if !ok {
			return nil, recordErrorf(index, "numstat entry %q has no path separator", entry)
		}

		if strings.ContainsRune(path, '\n') {
			return nil, recordErrorf(index,
				"numstat path %q contains a newline (log not produced with -z?)", path)
		}

		delta := Delta{Path: path}

		insertions, insOK := parseCount(insField)
		deletions, delOK := parseCount(delField)

		if insOK && delOK {
			delta.Insertions = insertions
			delta.Deletions = deletions
		} else {
			delta.Binary = true
		}

		if path == "" {
			if i+2 >= len(entries) {
				return nil, recordErrorf(index, "truncated rename entry")
			}

			oldPath := strings.Trim(entries[i+1], "\r\n")
			newPath := strings.Trim(entries[i+2], "\r\n")

			if oldPath == "" || newPath == "" {
				return nil, recordErrorf(index, "rename entry with empty path")
			}

			delta.Path = newPath
			i += 2
		}

		deltas = append(deltas, delta)
	}

	return deltas, nil
}

// parseCount accepts the non-negative integers numstat emits; anything
// else, such as the "-" binary marker, reports false.
func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
