// Package input reads player commands and splits them into a verb and a target.
package input

import (
	"bufio"
	"io"
	"strings"
)

// Command is one parsed player command
type Command struct {
	Verb   string
	Target string
}

// verbAliases folds common shorthands onto the verbs the game understands
var verbAliases = map[string]string{
	"x":       "examine",
	"look":    "examine",
	"inspect": "examine",
	"l":       "examine",
	"get":     "take",
	"grab":    "take",
	"pick":    "take",
	"go":      "move",
	"walk":    "move",
	"run":     "move",
	"open":    "unlock",
	"q":       "quit",
	"exit":    "quit",
	"z":       "wait",
	"ok":      "ack",
}

// fillerWords are dropped from the front of a target ("look at the desk")
var fillerWords = map[string]bool{
	"at": true, "the": true, "a": true, "an": true, "in": true, "into": true, "on": true, "to": true,
}

var directionWords = map[string]bool{
	"n": true, "north": true, "s": true, "south": true, "e": true, "east": true,
	"w": true, "west": true, "u": true, "up": true, "d": true, "down": true,
}

// Parse splits a raw line into a command. A bare direction becomes a move.
func Parse(line string) Command {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return Command{}
	}
	verb := fields[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	if directionWords[verb] && len(fields) == 1 {
		return Command{Verb: "move", Target: verb}
	}
	rest := fields[1:]
	// "pick up the lamp"
	if fields[0] == "pick" && len(rest) > 0 && rest[0] == "up" {
		rest = rest[1:]
	}
	for len(rest) > 1 && fillerWords[rest[0]] {
		rest = rest[1:]
	}
	return Command{Verb: verb, Target: strings.Join(rest, " ")}
}

// Reader reads commands line by line
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps an input stream
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its trailing newline.
// io.EOF is returned once the stream is exhausted and no text remains.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadCommand reads and parses the next line
func (r *Reader) ReadCommand() (Command, error) {
	line, err := r.ReadLine()
	if err != nil {
		return Command{}, err
	}
	return Parse(line), nil
}
