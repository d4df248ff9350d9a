package content

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// parseRST reads the field list (":date: 2020-01-01") that follows the
// document title. Titles may carry an overline as well as an underline.
func parseRST(data []byte) map[string]string {
	metadata := map[string]string{}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}

	i := skipBlank(lines, 0)
	i = skipTitle(lines, i)
	i = skipBlank(lines, i)

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, ":") {
			break
		}

		key, value, ok := strings.Cut(line[1:], ":")
		if !ok || key == "" {
			break
		}
		metadata[strings.ToLower(key)] = strings.TrimSpace(value)
	}

	return metadata
}

func skipBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i
}

func skipTitle(lines []string, i int) int {
	if i >= len(lines) {
		return i
	}

	// overline, title, underline
	if isAdornment(lines[i]) && i+2 < len(lines) && isAdornment(lines[i+2]) {
		return i + 3
	}

	// title, underline
	if i+1 < len(lines) && !isAdornment(lines[i]) && isAdornment(lines[i+1]) {
		return i + 2
	}

	return i
}

// isAdornment matches a section underline: one punctuation character
// repeated at least twice.
func isAdornment(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 2 {
		return false
	}

	c := rune(line[0])
	if !unicode.IsPunct(c) && !unicode.IsSymbol(c) {
		return false
	}
	return strings.Trim(line, string(c)) == ""
}

// parseHTML reads <meta name=... content=...> tags and the <title> from the
// document head.
func parseHTML(data []byte) (map[string]string, error) {
	metadata := map[string]string{}
	z := html.NewTokenizer(bytes.NewReader(data))
	inTitle := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return metadata, nil
			}
			return nil, fmt.Errorf("failed to parse html: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "body":
				return metadata, nil
			case "title":
				inTitle = true
			case "meta":
				var name, content string
				for _, attr := range tok.Attr {
					switch strings.ToLower(attr.Key) {
					case "name":
						name = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if name != "" {
					metadata[strings.ToLower(name)] = strings.TrimSpace(content)
				}
			}

		case html.TextToken:
			if inTitle {
				metadata["title"] = strings.TrimSpace(string(z.Text()))
			}

		case html.EndTagToken:
			if tok := z.Token(); tok.Data == "title" {
				inTitle = false
			}
		}
	}
}
