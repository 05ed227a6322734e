// Package shellwords tokenizes command-line templates the way a POSIX
// shell would split them, without performing any expansion.
package shellwords

import "fmt"

// Split breaks s into tokens. Single quotes protect everything, double
// quotes protect whitespace while honoring \" and \\ escapes, and a
// backslash outside quotes escapes the next byte. An unterminated quote
// or trailing backslash is an error.
func Split(s string) ([]string, error) {
	var (
		tokens  []string
		current []byte
		open    bool // a token is in progress even if empty (e.g. '')
	)
	flush := func() {
		if open || len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
			open = false
		}
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case ' ', '\t', '\n', '\r':
			flush()
		case '\'':
			open = true
			end := -1
			for j := i + 1; j < len(s); j++ {
				if s[j] == '\'' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("unterminated single quote at offset %d", i)
			}
			current = append(current, s[i+1:end]...)
			i = end
		case '"':
			open = true
			j := i + 1
			for j < len(s) && s[j] != '"' {
				if s[j] == '\\' && j+1 < len(s) && (s[j+1] == '"' || s[j+1] == '\\') {
					current = append(current, s[j+1])
					j += 2
					continue
				}
				current = append(current, s[j])
				j++
			}
			if j >= len(s) {
				return nil, fmt.Errorf("unterminated double quote at offset %d", i)
			}
			i = j
		case '\\':
			if i+1 >= len(s) {
				return nil, fmt.Errorf("trailing backslash")
			}
			current = append(current, s[i+1])
			open = true
			i++
		default:
			current = append(current, ch)
			open = true
		}
	}
	flush()
	return tokens, nil
}

// Commands splits a token stream at literal ";" tokens into independent
// command vectors. Empty vectors produced by leading, trailing or doubled
// separators are preserved; callers decide whether to skip them.
func Commands(tokens []string) [][]string {
	cmds := [][]string{nil}
	for _, tok := range tokens {
		if tok == ";" {
			cmds = append(cmds, nil)
			continue
		}
		cmds[len(cmds)-1] = append(cmds[len(cmds)-1], tok)
	}
	return cmds
}
