package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nulzo/llm-provider-kit/pkg/api"
	"go.uber.org/zap"
)

const (
	filePrefix   = "models_"
	windowSuffix = "_wnd.txt"
	infoSuffix   = "_info.txt"
)

func IDsPath(dir, provider string) string {
	return filepath.Join(dir, filePrefix+provider+".txt")
}

func WindowPath(dir, provider string) string {
	return filepath.Join(dir, filePrefix+provider+windowSuffix)
}

func InfoPath(dir, provider string) string {
	return filepath.Join(dir, filePrefix+provider+infoSuffix)
}

// RankedPath is where probe results go: <okDir>/<provider>_wnd.txt.
func RankedPath(okDir, provider string) string {
	return filepath.Join(okDir, provider+windowSuffix)
}

// Entry is one "id|token" line with the token kept verbatim.
type Entry struct {
	ID    string
	Token string
}

// Spec converts the entry into a model spec, parsing the window token.
func (e Entry) Spec(provider string) api.ModelSpec {
	return api.ModelSpec{ID: e.ID, WindowSize: ParseWindow(e.Token), Provider: provider}
}

// ParseEntries reads "id|token" lines. Blank lines are ignored; lines without
// a separator or with an empty id are reported by number and skipped.
func ParseEntries(r io.Reader) (entries []Entry, malformed []int, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, token, ok := strings.Cut(line, "|")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			malformed = append(malformed, lineNo)
			continue
		}
		// Extra columns after the token are ignored.
		token, _, _ = strings.Cut(token, "|")
		entries = append(entries, Entry{ID: id, Token: strings.TrimSpace(token)})
	}
	return entries, malformed, scanner.Err()
}

// ReadEntries parses an "id|token" file, logging malformed lines.
func ReadEntries(path string, log *zap.Logger) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, malformed, err := ParseEntries(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for _, n := range malformed {
		log.Warn("skipping malformed catalog line", zap.String("file", path), zap.Int("line", n))
	}
	return entries, nil
}

// WriteEntries writes "id|token" lines in the given order.
func WriteEntries(path string, entries []Entry) error {
	return writeLines(path, func(w *bufio.Writer) error {
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s|%s\n", e.ID, e.Token); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadIDs reads a one-id-per-line file.
func ReadIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, scanner.Err()
}

// WriteIDs writes ids sorted, one per line.
func WriteIDs(path string, ids []string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return writeLines(path, func(w *bufio.Writer) error {
		for _, id := range sorted {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadDir builds a catalog from every models_<provider>_wnd.txt in dir,
// scanning files in lexical order. Unreadable files are logged and skipped; a
// missing dir yields an empty catalog and the error.
func LoadDir(dir string, log *zap.Logger) (*Catalog, error) {
	cat := New()

	if _, err := os.Stat(dir); err != nil {
		return cat, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+windowSuffix))
	if err != nil {
		return cat, err
	}
	sort.Strings(matches)

	for _, path := range matches {
		provider := ProviderFromFile(filepath.Base(path))
		if provider == "" {
			continue
		}
		entries, err := ReadEntries(path, log)
		if err != nil {
			log.Error("failed to read catalog file", zap.String("file", path), zap.Error(err))
			continue
		}
		specs := make([]api.ModelSpec, 0, len(entries))
		for _, e := range entries {
			specs = append(specs, e.Spec(provider))
		}
		if len(specs) == 0 {
			log.Warn("catalog file has no models", zap.String("file", path))
			continue
		}
		cat.Add(provider, specs...)
		log.Debug("loaded catalog", zap.String("provider", provider), zap.Int("models", len(specs)))
	}
	return cat, nil
}

// ProviderFromFile extracts the provider from "models_<p>_wnd.txt" or
// "<p>_wnd.txt". It returns "" for other names.
func ProviderFromFile(name string) string {
	if !strings.HasSuffix(name, windowSuffix) {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSuffix(name, windowSuffix), filePrefix)
}

func writeLines(path string, fill func(w *bufio.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
