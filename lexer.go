package postfix

import (
	"fmt"
	"math"
	"strconv"
)

type category uint8

const (
	leftBracket category = iota
	rightBracket
	space
	letter
	digit
)

// breaking characters end any word or number being built
func (cat category) breaking() bool { return cat <= space }

func classify(r rune) (category, error) {
	switch {
	case r == '(':
		return leftBracket, nil
	case r == ')':
		return rightBracket, nil
	case r == ' ':
		return space, nil
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		return letter, nil
	case '0' <= r && r <= '9':
		return digit, nil
	}
	return 0, InvalidCharacterError{r}
}

// TokenKind distinguishes Token variants.
type TokenKind uint8

const (
	LeftParen TokenKind = iota
	RightParen
	Number
	Word
)

// Token is a lexical unit: a bracket, a number literal, or a resolved keyword.
type Token struct {
	Kind    TokenKind
	Value   int
	Keyword Keyword
}

func (tok Token) String() string {
	switch tok.Kind {
	case LeftParen:
		return "("
	case RightParen:
		return ")"
	case Number:
		return strconv.Itoa(tok.Value)
	case Word:
		return tok.Keyword.String()
	}
	return fmt.Sprintf("Token(%d)", tok.Kind)
}

type building uint8

const (
	buildingNothing building = iota
	buildingNumber
	buildingWord
)

// builder is the partially formed token carried between lexer steps.
type builder struct {
	state building
	value int
	word  []rune
}

func (b builder) feed(r rune, cat category) (builder, error) {
	switch b.state {
	case buildingNothing:
		if cat == digit {
			return builder{state: buildingNumber, value: int(r - '0')}, nil
		}
		return builder{state: buildingWord, word: []rune{r}}, nil

	case buildingNumber:
		if cat != digit {
			return b, NumberFollowedByLetterError{b.value, r}
		}
		d := int(r - '0')
		if b.value > (math.MaxInt-d)/10 {
			return b, NumberOverflowError{b.value, d}
		}
		b.value = b.value*10 + d
		return b, nil

	default:
		b.word = append(b.word, r)
		return b, nil
	}
}

func (b builder) token() (tok Token, ok bool, err error) {
	switch b.state {
	case buildingNumber:
		return Token{Kind: Number, Value: b.value}, true, nil
	case buildingWord:
		kw, err := Resolve(string(b.word))
		return Token{Kind: Word, Keyword: kw}, err == nil, err
	}
	return Token{}, false, nil
}

type lexer struct {
	tokens []Token
	open   builder
}

func (lx *lexer) step(r rune) error {
	cat, err := classify(r)
	if err != nil {
		return err
	}
	if !cat.breaking() {
		lx.open, err = lx.open.feed(r, cat)
		return err
	}
	if err := lx.flush(); err != nil {
		return err
	}
	switch cat {
	case leftBracket:
		lx.tokens = append(lx.tokens, Token{Kind: LeftParen})
	case rightBracket:
		lx.tokens = append(lx.tokens, Token{Kind: RightParen})
	}
	return nil
}

func (lx *lexer) flush() error {
	tok, ok, err := lx.open.token()
	lx.open = builder{}
	if ok {
		lx.tokens = append(lx.tokens, tok)
	}
	return err
}

// Tokenize folds source, left to right, into a token sequence. A word or
// number still open at the end of the source is flushed as a final token.
func Tokenize(source string) ([]Token, error) {
	var lx lexer
	for _, r := range source {
		if err := lx.step(r); err != nil {
			return nil, err
		}
	}
	if err := lx.flush(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}
