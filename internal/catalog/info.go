package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	infoIDKey     = "ID"
	infoRule      = 50
	infoSeparator = 30
)

type Field struct {
	Key   string
	Value string
}

// InfoBlock is one model's section of an info file.
type InfoBlock struct {
	ID     string
	Fields []Field
}

// Get returns the first field named key.
func (b InfoBlock) Get(key string) (string, bool) {
	for _, f := range b.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set appends a field; empty values are written too, as "<key>: ".
func (b *InfoBlock) Set(key string, value interface{}) {
	b.Fields = append(b.Fields, Field{Key: key, Value: fmt.Sprint(value)})
}

// InfoTitle is the header line for provider's info file.
func InfoTitle(provider string) string {
	name := strings.ToUpper(provider)
	if provider == "openrouter" {
		name += " (FREE)"
	}
	return fmt.Sprintf("MODELLI %s - INFORMAZIONI DETTAGLIATE", name)
}

func WriteInfo(path, title string, blocks []InfoBlock) error {
	return writeLines(path, func(w *bufio.Writer) error {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("=", infoRule))
		fmt.Fprintln(w)
		for _, b := range blocks {
			fmt.Fprintf(w, "%s: %s\n", infoIDKey, b.ID)
			for _, f := range b.Fields {
				fmt.Fprintf(w, "%s: %s\n", f.Key, f.Value)
			}
			if _, err := fmt.Fprintln(w, strings.Repeat("-", infoSeparator)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ParseInfo splits an info file into blocks. A block starts at an "ID:" line
// and collects "Key: value" lines until the next one; the header and
// separator lines are ignored.
func ParseInfo(r io.Reader) ([]InfoBlock, error) {
	var blocks []InfoBlock
	current := -1

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		if key == infoIDKey {
			blocks = append(blocks, InfoBlock{ID: value})
			current = len(blocks) - 1
			continue
		}
		if current >= 0 && key != "" {
			blocks[current].Fields = append(blocks[current].Fields, Field{Key: key, Value: value})
		}
	}
	return blocks, scanner.Err()
}

func ReadInfo(path string) ([]InfoBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseInfo(f)
}
