package jsonrepair

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

type syntaxError = json.SyntaxError

// stage is one repair pass. transform receives the output of the previous
// stage, never the original input.
type stage struct {
	name      string
	transform func(string) string
}

// stages run in order until one produces parseable JSON. The first stage is the
// identity so that well-formed input is never rewritten.
var stages = []stage{
	{name: "direct", transform: func(s string) string { return s }},
	{name: "light", transform: lightRepair},
	{name: "aggressive", transform: aggressiveRepair},
	{name: "structural", transform: structuralRepair},
}

var (
	reSpaces       = regexp.MustCompile(`[ \t]+`)
	reControlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	duplicateEscapes = strings.NewReplacer(`\\n`, `\n`, `\\t`, `\t`, `\\r`, `\r`)
)

// Extract returns the text between the first '{' and the last '}' of raw.
func Extract(raw string) (string, error) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last < 0 || first >= last {
		return "", ErrNoJSON
	}
	candidate := raw[first : last+1]
	if strings.TrimSpace(candidate) == "" {
		return "", ErrEmptyCandidate
	}
	return candidate, nil
}

// Repair extracts the embedded object from raw and runs the repair stages until
// the text parses. It returns the repaired JSON text.
func Repair(raw string) (string, error) {
	candidate, err := Extract(raw)
	if err != nil {
		return "", &DecodeError{Stage: "extract", Err: err}
	}

	text := candidate
	var (
		lastErr   error
		lastStage string
	)
	for _, st := range stages {
		text = st.transform(text)
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err == nil {
			return text, nil
		} else {
			lastErr = err
			lastStage = st.name
		}
	}
	return "", newDecodeError(lastStage, text, lastErr)
}

// Decode extracts and repairs the JSON object embedded in raw and returns it as
// a generic map.
func Decode(raw string) (map[string]any, error) {
	text, err := Repair(raw)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, newDecodeError("bind", text, err)
	}
	return out, nil
}

// DecodeInto extracts and repairs the JSON object embedded in raw and decodes
// it into v.
func DecodeInto(raw string, v any) error {
	text, err := Repair(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return newDecodeError("bind", text, fmt.Errorf("repaired JSON does not match %T: %w", v, err))
	}
	return nil
}

// lightRepair normalizes whitespace and removes trailing commas.
func lightRepair(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = reSpaces.ReplaceAllString(s, " ")
	return fixCommas(s, false)
}

// aggressiveRepair removes control characters, collapses doubled escapes and
// escapes quotes and newlines that appear inside string values.
func aggressiveRepair(s string) string {
	s = reControlChars.ReplaceAllString(s, "")
	s = duplicateEscapes.Replace(s)
	s = fixCommas(s, false)
	return escapeInsideStrings(s)
}

// structuralRepair inserts commas missing between adjacent values.
func structuralRepair(s string) string {
	return fixCommas(s, true)
}

// fixCommas walks the text outside string literals, dropping commas that
// directly precede a closing bracket. When insert is set it also adds the
// comma missing between a value and the value or key that follows it.
func fixCommas(s string, insert bool) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	var (
		pending      strings.Builder // whitespace after the last significant byte
		commaPending bool
		valueEnded   bool
	)
	// emit writes a significant token, first flushing any held comma and
	// whitespace. A held comma is dropped before a closing bracket.
	emit := func(token string, startsValue bool) {
		closer := token[0] == '}' || token[0] == ']'
		switch {
		case commaPending && !closer:
			b.WriteByte(',')
		case !commaPending && insert && valueEnded && startsValue:
			b.WriteByte(',')
		}
		commaPending = false
		b.WriteString(pending.String())
		pending.Reset()
		b.WriteString(token)
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			pending.WriteByte(c)
		case c == ',':
			if commaPending {
				b.WriteByte(',')
			}
			b.WriteString(pending.String())
			pending.Reset()
			commaPending = true
			valueEnded = false
		case c == '"':
			end := stringEnd(s, i)
			emit(s[i:end], true)
			i = end - 1
			valueEnded = true
		case c == '{' || c == '[':
			emit(s[i : i+1], true)
			valueEnded = false
		case c == '}' || c == ']':
			emit(s[i : i+1], false)
			valueEnded = true
		case isLiteralByte(c):
			end := i + 1
			for end < len(s) && isLiteralByte(s[end]) {
				end++
			}
			emit(s[i:end], true)
			i = end - 1
			valueEnded = true
		default:
			emit(s[i : i+1], false)
			valueEnded = false
		}
	}
	if commaPending {
		b.WriteByte(',')
	}
	b.WriteString(pending.String())
	return b.String()
}

// stringEnd returns the index just past the string literal opening at start,
// or len(s) when the literal is unterminated.
func stringEnd(s string, start int) int {
	for j := start + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

// isLiteralByte reports whether c can appear in a bare number or keyword.
func isLiteralByte(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c == '.' || c == '+' || c == '-'
}

// escapeInsideStrings walks the text tracking whether it is inside a string
// literal. A quote inside a string only closes it when the next significant
// character is a delimiter; otherwise it is escaped. Raw newlines and tabs
// inside strings are replaced with their escape sequences.
func escapeInsideStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '\\':
			b.WriteByte(c)
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case '"':
			if closesString(s, i+1) {
				inString = false
				b.WriteByte(c)
			} else {
				b.WriteString(`\"`)
			}
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func closesString(s string, from int) bool {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case ' ', '\n', '\r', '\t':
			continue
		case ',', ':', '}', ']', '"':
			return true
		default:
			return false
		}
	}
	return true
}
