// SPDX-License-Identifier: MIT

// Package lexer tokenizes the nested export format of an organizational hierarchy.
//
// The format lists an employee's identifier followed by its subordinates, each preceded by a
// splitter, & closes the subordinates with an end marker: `1,2,4)),3))`.
package lexer

// REF: https://gitlab.com/fisherprime/go-ddbms/-/blob/master/internal/v1/lexer.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type (
	// NextOperation is a lexing state, returning the state to run next or nil once done.
	NextOperation func(context.Context) NextOperation

	// ValidationFunction reports whether a rune belongs to the token being lexed.
	ValidationFunction func(rune) bool

	// Lexer splits an exported hierarchy into Items.
	Lexer struct {
		debug     bool
		endMarker rune
		splitter  rune
		logger    logrus.FieldLogger

		// c carries the lexed Items, it is closed once lexing stops.
		c chan Item

		source io.RuneReader

		// buffer holds the runes read from source but not yet emitted; pos indexes the next
		// unread rune.
		buffer []rune
		pos    int

		valueCounter int
		endCounter   int
	}

	// Option configures a Lexer.
	Option func(*Lexer)
)

const (
	sourceLimit   = 512
	defBufferSize = 10
)

// Lexing errors.
var (
	ErrInvalidPeekLength   = errors.New("invalid peek length")
	ErrInvalidBackupAmount = errors.New("invalid backup amount")
	ErrUnknownTokens       = errors.New("unknown tokens")
)

// Lookup tables keep the classifiers small enough to inline.
var (
	whitespace = [256]bool{
		' ':  true,
		'\t': true,
		'\r': true,
		'\n': true,
	}

	signSymbols = [256]bool{
		'+': true,
		'-': true,
	}
)

// New creates a Lexer, reading an empty source unless configured otherwise.
func New(opts ...Option) *Lexer {
	l := &Lexer{
		endMarker: DefEndMarker,
		splitter:  DefSplitter,
		logger:    logrus.New(),
		c:         make(chan Item, defBufferSize),
		buffer:    make([]rune, 0, defBufferSize),
		source:    strings.NewReader(""),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithDebug logs every emitted Item when set.
func WithDebug(debug bool) Option { return func(l *Lexer) { l.debug = debug } }

// WithEndMarker sets the rune closing a list of subordinates.
func WithEndMarker(r rune) Option { return func(l *Lexer) { l.endMarker = r } }

// WithSplitter sets the rune preceding each subordinate.
func WithSplitter(r rune) Option { return func(l *Lexer) { l.splitter = r } }

// WithLogger sets the Lexer's logger.
func WithLogger(logger logrus.FieldLogger) Option { return func(l *Lexer) { l.logger = logger } }

// WithSource sets the reader the Lexer consumes.
func WithSource(source io.RuneReader) Option { return func(l *Lexer) { l.source = source } }

// WithString lexes source.
func WithString(source string) Option { return WithSource(strings.NewReader(source)) }

// EndMarker obtains the configured end marker.
func (l *Lexer) EndMarker() rune { return l.endMarker }

// Splitter obtains the configured splitter.
func (l *Lexer) Splitter() rune { return l.splitter }

// ValueCounter is the number of values lexed, final once the Item channel is closed.
func (l *Lexer) ValueCounter() int { return l.valueCounter }

// EndCounter is the number of end markers lexed, final once the Item channel is closed.
func (l *Lexer) EndCounter() int { return l.endCounter }

// Logger obtains the logger.
func (l *Lexer) Logger() logrus.FieldLogger { return l.logger }

// Lex runs the lexing states until one stops, then closes the Item channel.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	if err := ctx.Err(); err != nil {
		l.EmitError(err)
		return
	}

	for state := l.LexWhitespace; state != nil; {
		state = state(ctx)
	}
}

// LexWhitespace skips whitespace then dispatches on the following rune.
func (l *Lexer) LexWhitespace(ctx context.Context) NextOperation {
	if err := l.AcceptWhile(isWhitespace); err != nil {
		l.EmitError(err)
		return nil
	}
	l.Discard()

	if err := ctx.Err(); err != nil {
		l.EmitError(err)
		return nil
	}

	next, eof := l.Next()
	switch {
	case eof:
		l.EmitEOF()
		return nil
	case next == l.endMarker:
		l.endCounter++
		l.Emit(ItemEndMarker)
	case next == l.splitter:
		l.Emit(ItemSplitter)
	case isValue(next):
		return l.LexValue
	default:
		if err := l.Backup(); err != nil {
			l.EmitError(err)
			return nil
		}

		rest, err := l.PeekN(sourceLimit)
		if err != nil {
			l.EmitError(err)
			return nil
		}
		l.EmitError(fmt.Errorf("%w: %s", ErrUnknownTokens, string(rest)))

		return nil
	}

	return l.LexWhitespace
}

// LexValue consumes the digits of an identifier whose first rune was read.
func (l *Lexer) LexValue(ctx context.Context) NextOperation {
	err := l.AcceptWhile(isNumeric)

	// The source may end on a value.
	l.valueCounter++
	l.Emit(ItemValue)

	if err != nil {
		l.EmitError(err)
		return nil
	}

	return l.LexWhitespace
}

// Next consumes a rune, eof is set once the source is exhausted.
func (l *Lexer) Next() (r rune, eof bool) {
	if l.pos >= len(l.buffer) && l.Source(0) < 1 {
		return 0, true
	}

	r = l.buffer[l.pos]
	l.pos++

	return
}

// PeekN obtains up to n unread runes without consuming them.
//
// Fewer runes are returned near the end of the source, io.EOF once it is exhausted.
func (l *Lexer) PeekN(n int) (list []rune, err error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPeekLength, n)
	}

	want := l.pos + n
	for len(l.buffer) < want {
		if l.Source(want-len(l.buffer)) < 1 {
			break
		}
	}

	end := min(want, len(l.buffer))
	if end <= l.pos {
		return nil, io.EOF
	}

	return l.buffer[l.pos:end], nil
}

// Backup unreads a rune.
func (l *Lexer) Backup() error { return l.BackupN(1) }

// BackupN unreads n runes, limited to those not yet emitted.
func (l *Lexer) BackupN(n int) error {
	if n > l.pos {
		return fmt.Errorf("%w: amount %d position %d", ErrInvalidBackupAmount, n, l.pos)
	}
	l.pos -= n

	return nil
}

// Discard drops the consumed runes.
func (l *Lexer) Discard() {
	l.buffer = l.buffer[l.pos:]
	l.pos = 0
}

// Source appends up to amount runes, no fewer than defBufferSize, from the source to the
// buffer, returning the number read.
func (l *Lexer) Source(amount int) (sourced int) {
	amount = max(amount, defBufferSize)

	for ; sourced < amount; sourced++ {
		r, _, err := l.source.ReadRune()
		if err != nil {
			// io.EOF, or a failing reader treated as one.
			break
		}
		l.buffer = append(l.buffer, r)
	}

	return
}

// AcceptWhile consumes runes satisfying fn, io.EOF is returned if the source runs out.
func (l *Lexer) AcceptWhile(fn ValidationFunction) error {
	for {
		r, eof := l.Next()
		if eof {
			return io.EOF
		}

		if !fn(r) {
			return l.Backup()
		}
	}
}

// Emit sends the consumed runes as an Item of type t.
func (l *Lexer) Emit(t ItemID) {
	val := []byte(string(l.buffer[:l.pos]))

	if l.debug {
		l.logger.Debugf("lexer Emit %s: %s", t, val)
	}

	l.c <- Item{ID: t, Val: val}
	l.Discard()
}

// EmitEOF sends an ItemEOF.
func (l *Lexer) EmitEOF() { l.c <- Item{ID: ItemEOF} }

// EmitError sends err as an ItemError, io.EOF is sent as an ItemEOF.
func (l *Lexer) EmitError(err error) {
	if errors.Is(err, io.EOF) {
		l.EmitEOF()
		return
	}

	l.c <- Item{ID: ItemError, Err: err}
}

// Item receives the next lexed Item, ok is unset once the channel is closed.
func (l *Lexer) Item() (i Item, ok bool) {
	i, ok = <-l.c
	return
}

func isWhitespace(r rune) bool { return r < 256 && whitespace[r] }

// isNumeric is limited to ASCII decimal digits.
func isNumeric(r rune) bool { return r >= '0' && r <= '9' }

// isValue matches the first rune of a, possibly signed, identifier.
func isValue(r rune) bool { return isNumeric(r) || (r < 256 && signSymbols[r]) }
