package postfix

const headWord = "postfix"

// keywords is the closed keyword table; words are matched exactly, so
// prefixes and case variants of a keyword are not keywords.
var keywords = map[string]Keyword{headWord: Head}

func init() {
	for fn := Add; fn < functionMax; fn++ {
		keywords[fn.String()] = FunctionKeyword(fn)
	}
}

// Resolve maps a complete word to its keyword.
func Resolve(word string) (Keyword, error) {
	if kw, defined := keywords[word]; defined {
		return kw, nil
	}
	return Keyword{}, InvalidFunctionNameError{word}
}

func (kw Keyword) String() string {
	if fn, ok := kw.Function(); ok {
		return fn.String()
	}
	return headWord
}
