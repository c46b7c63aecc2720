// Package dumpreader implements spec §4.1: decoding the opaque GUI-dump
// byte stream into per-action RawRecords. It never invents records — a
// line that fails the fixed item regex is skipped, and a fully empty
// record chunk is dropped.
package dumpreader

import (
	"bytes"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mldsl-tools/mldsl/internal/mlerr"
	"github.com/mldsl-tools/mldsl/internal/model"
)

// itemLineRE matches: item=slot <N>: [<id> meta=<M>] <name> | <lore>
var itemLineRE = regexp.MustCompile(`^item=slot\s+(\d+):\s+\[(\S+)\s+meta=(\d+)\]\s+(.*)$`)

const recordMarker = "# record"

// Read decodes the dump file at path and splits it into RawRecords.
// Returns a MissingInput error if the file does not exist.
func Read(path string) ([]model.RawRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mlerr.Wrap(mlerr.KindMissingInput, "dump file not found: "+path, err)
		}
		return nil, mlerr.Wrap(mlerr.KindMissingInput, "reading dump file: "+path, err)
	}
	return Parse(raw), nil
}

// Parse decodes an in-memory dump byte stream. NUL bytes are stripped and
// the remainder is UTF-8 decoded with lossy fallback (invalid sequences
// become the replacement rune, never an error).
func Parse(raw []byte) []model.RawRecord {
	raw = bytes.ReplaceAll(raw, []byte{0}, nil)
	text := decodeUTF8Lossy(raw)

	var records []model.RawRecord
	var chunk []string
	flush := func() {
		if len(chunk) == 0 {
			return
		}
		rec := parseRecordLines(chunk)
		if !isEmptyRecord(rec) {
			records = append(records, rec)
		}
		chunk = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, recordMarker):
			flush()
		case strings.HasPrefix(line, "records="):
			// Trailer metadata, not part of any record.
		default:
			chunk = append(chunk, line)
		}
	}
	flush()
	return records
}

// decodeUTF8Lossy mirrors Python's bytes.decode("utf-8", errors="replace"):
// each invalid byte becomes U+FFFD and decoding resumes at the next byte.
func decodeUTF8Lossy(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

func parseRecordLines(lines []string) model.RawRecord {
	rec := model.RawRecord{Items: map[int]model.SlotItem{}}
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "path="):
			rec.Path = line[len("path="):]
		case strings.HasPrefix(line, "category="):
			rec.Category = line[len("category="):]
		case strings.HasPrefix(line, "subitem="):
			rec.Subitem = line[len("subitem="):]
		case strings.HasPrefix(line, "gui="):
			rec.GUI = line[len("gui="):]
		case strings.HasPrefix(line, "sign1="):
			rec.Signs[0] = line[len("sign1="):]
		case strings.HasPrefix(line, "sign2="):
			rec.Signs[1] = line[len("sign2="):]
		case strings.HasPrefix(line, "sign3="):
			rec.Signs[2] = line[len("sign3="):]
		case strings.HasPrefix(line, "sign4="):
			rec.Signs[3] = line[len("sign4="):]
		case strings.HasPrefix(line, "hasChest="):
			rec.HasChest = strings.EqualFold(strings.TrimSpace(line[len("hasChest="):]), "true")
		case strings.HasPrefix(line, "item="):
			parseItemLine(&rec, line)
		}
	}
	return rec
}

func parseItemLine(rec *model.RawRecord, line string) {
	m := itemLineRE.FindStringSubmatch(line)
	if m == nil {
		return // malformed item line: skipped silently per spec §7.2
	}
	slot, err := strconv.Atoi(m[1])
	if err != nil {
		return
	}
	meta, err := strconv.Atoi(m[3])
	if err != nil {
		return
	}
	name, lore := m[4], ""
	if idx := strings.Index(m[4], " | "); idx >= 0 {
		name = strings.TrimSpace(m[4][:idx])
		lore = strings.TrimSpace(m[4][idx+len(" | "):])
	} else {
		name = strings.TrimSpace(m[4])
	}
	rec.Items[slot] = model.SlotItem{ID: strings.TrimSpace(m[2]), Meta: meta, Name: name, Lore: lore}
}

func isEmptyRecord(r model.RawRecord) bool {
	return r.Path == "" && r.Category == "" && r.Subitem == "" && r.GUI == "" &&
		r.Signs == [4]string{} && len(r.Items) == 0
}
