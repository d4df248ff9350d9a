package content

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"filetime/internal/models"
	"filetime/internal/render"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var contentExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".rst":      true,
	".html":     true,
	".htm":      true,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

type LoaderOptions struct {
	DateFormat string
	Location   *time.Location
}

// Loader builds documents from files in fs. Source paths are fs paths
// joined onto base, so they can be stat'ed and looked up in git.
type Loader struct {
	fs     billy.Filesystem
	base   string
	opts   LoaderOptions
	logger *zap.Logger
}

func NewLoader(fs billy.Filesystem, base string, opts LoaderOptions, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fs:     fs,
		base:   base,
		opts:   opts,
		logger: logger,
	}
}

// Discover loads every non-hidden file under dir, sorted by source path.
func (l *Loader) Discover(dir string) ([]*models.Document, error) {
	var docs []*models.Document

	err := util.Walk(l.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path != dir && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		doc, err := l.Load(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].SourcePath < docs[j].SourcePath
	})

	l.logger.Debug("Discovered content", zap.String("dir", dir), zap.Int("count", len(docs)))
	return docs, nil
}

// Load builds the document for a single file. Static files are not read.
func (l *Loader) Load(path string) (*models.Document, error) {
	doc := &models.Document{
		SourcePath: filepath.Join(l.base, path),
		Kind:       kindOf(path),
		Metadata:   map[string]string{},
		DateFormat: l.opts.DateFormat,
	}

	if doc.IsStatic() {
		return doc, nil
	}

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	metadata, err := ParseMetadata(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata of %s: %w", path, err)
	}
	doc.Metadata = metadata

	if format, ok := metadata["date_format"]; ok && format != "" {
		doc.DateFormat = format
	}

	if value, ok := metadata["date"]; ok {
		t, err := ParseDate(value, l.opts.Location)
		if err != nil {
			return nil, fmt.Errorf("invalid date in %s: %w", path, err)
		}
		doc.Date = &t

		doc.LocaleDate, err = render.Strftime(t, doc.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("failed to render date of %s: %w", path, err)
		}
	}

	if value, ok := metadata["modified"]; ok {
		t, err := ParseDate(value, l.opts.Location)
		if err != nil {
			return nil, fmt.Errorf("invalid modified date in %s: %w", path, err)
		}
		doc.Modified = &t

		doc.LocaleModified, err = render.Strftime(t, doc.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("failed to render modified date of %s: %w", path, err)
		}
	}

	return doc, nil
}

func kindOf(path string) models.Kind {
	if !contentExtensions[strings.ToLower(filepath.Ext(path))] {
		return models.KindStatic
	}

	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if part == "pages" {
			return models.KindPage
		}
	}

	return models.KindArticle
}

// ParseMetadata reads the metadata of a file with extension ext. HTML takes
// <meta> tags, reStructuredText takes the field list after the title, and
// everything else takes YAML front matter between --- lines or "Key: value"
// header lines up to the first blank line. Keys are lowercased.
func ParseMetadata(ext string, data []byte) (map[string]string, error) {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return parseHTML(data)
	case ".rst":
		return parseRST(data), nil
	}

	if front, ok := frontMatter(data); ok {
		return parseFrontMatter(front)
	}
	return parseHeader(data), nil
}

func frontMatter(data []byte) ([]byte, bool) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, false
	}

	rest := data[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")) {
		return nil, true
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, false
	}
	return rest[:end+1], true
}

func parseFrontMatter(front []byte) (map[string]string, error) {
	metadata := map[string]string{}
	if len(bytes.TrimSpace(front)) == 0 {
		return metadata, nil
	}

	var fields map[string]yaml.Node
	if err := yaml.Unmarshal(front, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	for key, node := range fields {
		metadata[strings.ToLower(key)] = nodeString(&node)
	}
	return metadata, nil
}

func nodeString(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			values = append(values, nodeString(item))
		}
		return strings.Join(values, ", ")
	case yaml.AliasNode:
		if node.Alias != nil {
			return nodeString(node.Alias)
		}
		return ""
	default:
		return node.Value
	}
}

func parseHeader(data []byte) map[string]string {
	metadata := map[string]string{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			break
		}
		metadata[strings.ToLower(key)] = strings.TrimSpace(value)
	}

	return metadata
}

// ParseDate accepts the usual date and date-time spellings found in content
// metadata. Values without an offset are read in loc, or the system zone if
// loc is nil.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
