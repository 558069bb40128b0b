// Package command parses admin commands typed into a conversation:
//
//	<prefix> name;arg1;arg2
//
// The prefix must be followed by whitespace, arguments are separated by ';'
// and surrounding spaces are trimmed. One trailing empty segment is ignored,
// so "countretorts;" and "countretorts" are the same command.
package command

import (
	"errors"
	"fmt"
	"strings"
)

const Delimiter = ";"

var (
	ErrUnknownCommand = errors.New("command: unknown command")
	ErrArity          = errors.New("command: wrong number of arguments")
)

const (
	AddRetort     = "addretort"
	RemoveRetort  = "removeretort"
	CountRetorts  = "countretorts"
	ListRetorts   = "listretorts"
	ListUnknowns  = "listunknowns"
	CountUnknowns = "countunknowns"
	RemoveUnknown = "removeunknown"
	Skills        = "skills"
)

// Arity is the number of arguments each command takes.
var Arity = map[string]int{
	AddRetort:     2,
	RemoveRetort:  1,
	CountRetorts:  0,
	ListRetorts:   0,
	ListUnknowns:  0,
	CountUnknowns: 0,
	RemoveUnknown: 1,
	Skills:        0,
}

type Command struct {
	Name string
	Args []string
}

type Parser struct {
	prefix string
}

func NewParser(prefix string) *Parser {
	return &Parser{prefix: strings.TrimSpace(prefix)}
}

func (p *Parser) Prefix() string { return p.prefix }

// Matches reports whether text is addressed to the command parser at all.
func (p *Parser) Matches(text string) bool {
	_, ok := p.body(text)
	return ok
}

func (p *Parser) body(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if p.prefix == "" || len(text) < len(p.prefix) || !strings.EqualFold(text[:len(p.prefix)], p.prefix) {
		return "", false
	}
	rest := text[len(p.prefix):]
	if rest == "" {
		return "", true
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// Parse returns ok=false when text is not a command. For commands it validates
// the name and the argument count.
func (p *Parser) Parse(text string) (cmd Command, ok bool, err error) {
	body, ok := p.body(text)
	if !ok {
		return Command{}, false, nil
	}
	segments := strings.Split(body, Delimiter)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}
	if n := len(segments); n > 1 && segments[n-1] == "" {
		segments = segments[:n-1]
	}
	name := strings.ToLower(segments[0])
	want, known := Arity[name]
	if !known {
		return Command{Name: name}, true, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	args := segments[1:]
	if len(args) != want {
		return Command{Name: name, Args: args}, true, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, name, want, len(args))
	}
	for _, a := range args {
		if a == "" {
			return Command{Name: name, Args: args}, true, fmt.Errorf("%w: %s has an empty argument", ErrArity, name)
		}
	}
	return Command{Name: name, Args: args}, true, nil
}
