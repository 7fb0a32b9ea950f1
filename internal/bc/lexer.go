// Package bc compiles bc program text into bytecode.
package bc

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrIncomplete is returned when the input ends inside a string, comment, or
// block; more input may complete it.
var ErrIncomplete = errors.New("incomplete input")

// ErrQuit is returned when the quit keyword is compiled; any code compiled
// before it is kept.
var ErrQuit = errors.New("quit")

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNewline
	tokSemi
	tokComma
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokNumber
	tokName
	tokString
	tokKeyword
	tokOp
	tokDot
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (tok token) String() string {
	switch tok.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	case tokString:
		return fmt.Sprintf("string %q", tok.text)
	default:
		return fmt.Sprintf("%q", tok.text)
	}
}

func (tok token) is(kind tokenKind, text string) bool {
	return tok.kind == kind && tok.text == text
}

var keywords = map[string]bool{
	"abs":      true,
	"auto":     true,
	"break":    true,
	"continue": true,
	"define":   true,
	"else":     true,
	"for":      true,
	"halt":     true,
	"ibase":    true,
	"if":       true,
	"last":     true,
	"length":   true,
	"limits":   true,
	"obase":    true,
	"print":    true,
	"quit":     true,
	"read":     true,
	"return":   true,
	"scale":    true,
	"sqrt":     true,
	"void":     true,
	"while":    true,
}

// operators, longest first within each leading character
var operators = []string{
	"<<=", ">>=",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "^=", "@=",
	"==", "<=", ">=", "!=", "&&", "||", "<<", ">>",
	"+", "-", "*", "/", "%", "^", "@", "=", "<", ">", "!",
}

type syntaxError struct {
	line int
	mess string
}

func (err syntaxError) Error() string {
	if err.line > 1 {
		return fmt.Sprintf("line %v: %v", err.line, err.mess)
	}
	return err.mess
}

func errorf(line int, mess string, args ...interface{}) error {
	return syntaxError{line, fmt.Sprintf(mess, args...)}
}

// lex splits src into tokens; the final token is always tokEOF.
func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	emit := func(kind tokenKind, text string) {
		toks = append(toks, token{kind, text, line})
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			emit(tokNewline, "\n")
			line++
			i++

		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++

		case c == '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				line++
				i += 2
			} else if i+1 == len(src) {
				return nil, ErrIncomplete
			} else {
				return nil, errorf(line, "bad character '\\'")
			}

		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, ErrIncomplete
			}
			body := src[i+2 : i+2+end]
			line += strings.Count(body, "\n")
			i += 2 + end + 2

		case c == '"':
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				return nil, ErrIncomplete
			}
			body := src[i+1 : i+1+end]
			emit(tokString, body)
			line += strings.Count(body, "\n")
			i += end + 2

		case isDigit(c) || isUpper(c) || (c == '.' && i+1 < len(src) && (isDigit(src[i+1]) || isUpper(src[i+1]))):
			var sb strings.Builder
			dot := false
			for i < len(src) {
				c := src[i]
				if c == '\\' && i+1 < len(src) && src[i+1] == '\n' {
					line++
					i += 2
					continue
				}
				if c == '.' {
					if dot {
						break
					}
					dot = true
				} else if !isDigit(c) && !isUpper(c) {
					break
				}
				sb.WriteByte(c)
				i++
			}
			emit(tokNumber, sb.String())

		case c == '.':
			emit(tokDot, ".")
			i++

		case isLower(c):
			j := i + 1
			for j < len(src) && (isLower(src[j]) || isDigit(src[j]) || src[j] == '_') {
				j++
			}
			word := src[i:j]
			if keywords[word] {
				emit(tokKeyword, word)
			} else {
				emit(tokName, word)
			}
			i = j

		default:
			if kind, ok := punct[c]; ok {
				emit(kind, string(c))
				i++
				break
			}
			op := ""
			for _, cand := range operators {
				if strings.HasPrefix(src[i:], cand) {
					op = cand
					break
				}
			}
			if op == "" {
				return nil, errorf(line, "bad character %q", rune(c))
			}
			emit(tokOp, op)
			i += len(op)
		}
	}
	emit(tokEOF, "")
	return toks, nil
}

var punct = map[byte]tokenKind{
	';': tokSemi,
	',': tokComma,
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBracket,
	']': tokRBracket,
	'{': tokLBrace,
	'}': tokRBrace,
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }
func isLower(c byte) bool { return 'a' <= c && c <= 'z' }
