package flutter

import (
	"bufio"
	"bytes"
	"os"
	"strings"
)

// ReadProperties parses a Java .properties file of the simple form the
// flutter tool writes: one key=value (or key:value) per line, '#' and '!'
// comments, backslash escapes.
func ReadProperties(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProperties(data), nil
}

func ParseProperties(data []byte) map[string]string {
	props := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			props[unescapeProperty(line)] = ""
			continue
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		props[unescapeProperty(key)] = unescapeProperty(value)
	}
	return props
}

func unescapeProperty(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
