package sidecar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"subpick/internal/language"
)

// Kind classifies an external subtitle file.
type Kind int

const (
	// KindText is a text subtitle read directly by the player.
	KindText Kind = iota
	// KindBitmap is a subtitle stream that has to be demuxed (PGS, VobSub).
	KindBitmap
)

// File describes one discovered subtitle file.
type File struct {
	Path            string
	Format          string
	Kind            Kind
	Language        language.Tag
	Forced          bool
	HearingImpaired bool
	Original        bool
}

var textFormats = map[string]struct{}{
	"srt": {},
	"ass": {},
	"ssa": {},
	"vtt": {},
	"smi": {},
	"sub": {},
	"txt": {},
}

var bitmapFormats = map[string]struct{}{
	"sup": {},
	"idx": {},
}

var mediaFormats = map[string]struct{}{
	"mkv":  {},
	"mp4":  {},
	"m4v":  {},
	"avi":  {},
	"mov":  {},
	"ts":   {},
	"m2ts": {},
	"webm": {},
	"wmv":  {},
	"mpg":  {},
	"mpeg": {},
}

// Discover lists subtitle files that share the media file's basename.
// A file that also matches a longer sibling media basename ("Movie.Extended"
// next to "Movie") belongs to that sibling and is skipped. Results are sorted
// by path so stream numbering is reproducible.
func Discover(mediaPath string) ([]File, error) {
	mediaPath = strings.TrimSpace(mediaPath)
	if mediaPath == "" {
		return nil, fmt.Errorf("discover sidecars: empty media path")
	}
	dir := filepath.Dir(mediaPath)
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discover sidecars: %w", err)
	}

	names := make(map[string]struct{}, len(entries))
	var siblings []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		names[strings.ToLower(name)] = struct{}{}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if has(mediaFormats, ext) && hasPrefixFold(stem, base+".") {
			siblings = append(siblings, stem)
		}
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file, ok := Classify(base, entry.Name())
		if !ok || ownedBySibling(entry.Name(), siblings) {
			continue
		}
		// A .sub next to a matching .idx is the VobSub payload, not a text file.
		if file.Format == "sub" {
			idx := strings.TrimSuffix(strings.ToLower(entry.Name()), ".sub") + ".idx"
			if _, paired := names[idx]; paired {
				continue
			}
		}
		file.Path = filepath.Join(dir, entry.Name())
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Classify reports whether name is a subtitle sidecar for the media basename
// and decodes its name tokens. Path is left empty.
func Classify(base, name string) (File, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	var kind Kind
	switch {
	case has(textFormats, ext):
		kind = KindText
	case has(bitmapFormats, ext):
		kind = KindBitmap
	default:
		return File{}, false
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if !strings.EqualFold(stem, base) && !hasPrefixFold(stem, base+".") {
		return File{}, false
	}

	file := File{Format: ext, Kind: kind}
	rest := stem[len(base):]
	for _, token := range strings.Split(strings.TrimPrefix(rest, "."), ".") {
		token = strings.ToLower(strings.TrimSpace(token))
		switch token {
		case "":
			continue
		case "forced", "foreign":
			file.Forced = true
		case "sdh", "cc":
			file.HearingImpaired = true
		case "original", "orig":
			file.Original = true
		case "default":
			continue
		case "hi":
			// "hi" after a language is the hearing-impaired marker, otherwise Hindi.
			if !file.Language.IsUnknown() {
				file.HearingImpaired = true
				continue
			}
			file.Language = language.Parse(token)
		default:
			if file.Language.IsUnknown() && language.IsCode(token) {
				file.Language = language.Parse(token)
			}
		}
	}
	return file, true
}

func ownedBySibling(name string, siblings []string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, sibling := range siblings {
		if strings.EqualFold(stem, sibling) || hasPrefixFold(stem, sibling+".") {
			return true
		}
	}
	return false
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
