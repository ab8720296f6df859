package gcode

import (
	"strings"
)

// Line is either a Block or a comment.
type Line struct {
	Block   Block
	Comment string
}

func (l Line) String() string {
	if l.Block == nil {
		return "(" + l.Comment + ")"
	}
	return l.Block.String()
}

// Program is an ordered sequence of lines, built front to back and never
// edited once handed out.
type Program []Line

// Add appends a block made of the given words.
func (p *Program) Add(words ...Word) {
	b := make(Block, len(words))
	copy(b, words)
	*p = append(*p, Line{Block: b})
}

// Comment appends a comment line. Parentheses in text are replaced
// so the comment can not end early.
func (p *Program) Comment(text string) {
	text = strings.NewReplacer("(", "[", ")", "]").Replace(text)
	*p = append(*p, Line{Comment: text})
}

// Append adds all lines of o to the end of p.
func (p *Program) Append(o Program) {
	*p = append(*p, o...)
}

// Blocks returns the blocks of the program, skipping comments.
func (p Program) Blocks() []Block {
	res := make([]Block, 0, len(p))
	for _, l := range p {
		if l.Block == nil {
			continue
		}
		res = append(res, l.Block)
	}
	return res
}

// String renders the program one line per row, without a trailing newline.
func (p Program) String() string {
	s := make([]string, len(p))
	for i, l := range p {
		s[i] = l.String()
	}
	return strings.Join(s, "\n")
}
