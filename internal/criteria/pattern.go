package criteria

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPatternCacheSize bounds the process-wide pattern cache.
const DefaultPatternCacheSize = 100

// PatternKey identifies one compiled pattern. Two MatchCriteria with the
// same key share a compiled automaton.
type PatternKey struct {
	Pattern         string
	Escape          rune
	Mode            MatchMode
	CaseInsensitive bool
}

// PatternCache is a bounded LRU of compiled match patterns.
// Safe for concurrent use; the underlying cache serializes access.
type PatternCache struct {
	cache *lru.Cache[PatternKey, *regexp.Regexp]
}

// NewPatternCache creates a cache holding at most size patterns.
func NewPatternCache(size int) (*PatternCache, error) {
	c, err := lru.New[PatternKey, *regexp.Regexp](size)
	if err != nil {
		return nil, invalidArgument("pattern cache", err.Error())
	}
	return &PatternCache{cache: c}, nil
}

var processPatterns = func() *PatternCache {
	p, err := NewPatternCache(DefaultPatternCacheSize)
	if err != nil {
		panic(err)
	}
	return p
}()

// DefaultPatternCache returns the process-wide pattern cache.
func DefaultPatternCache() *PatternCache {
	return processPatterns
}

// Compile returns the compiled automaton for key, translating and
// compiling it on a miss.
func (p *PatternCache) Compile(key PatternKey) (*regexp.Regexp, error) {
	if re, ok := p.cache.Get(key); ok {
		return re, nil
	}

	src, err := TranslatePattern(key.Pattern, key.Escape, key.Mode)
	if err != nil {
		return nil, err
	}
	if key.CaseInsensitive {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, patternInvalid(key.Pattern, "invalid regular expression", err)
	}

	p.cache.Add(key, re)
	return re, nil
}

// Len returns the number of cached patterns.
func (p *PatternCache) Len() int {
	return p.cache.Len()
}

// Purge empties the cache.
func (p *PatternCache) Purge() {
	p.cache.Purge()
}

// TranslatePattern converts a LIKE, SIMILAR TO, or LIKE_REGEX pattern into
// Go regexp syntax.
//
// LIKE and SIMILAR TO match the whole input. Within LIKE the escape
// character may only precede %, _, or itself. LIKE_REGEX is passed through
// unanchored and takes no escape character.
func TranslatePattern(pattern string, escape rune, mode MatchMode) (string, error) {
	switch mode {
	case ModeLike:
		return translateLike(pattern, escape)
	case ModeSimilar:
		return translateSimilar(pattern, escape)
	case ModeRegex:
		if escape != NoEscape {
			return "", patternInvalid(pattern, "LIKE_REGEX does not accept an escape character", nil)
		}
		return pattern, nil
	default:
		return "", invalidArgument("match mode", fmt.Sprintf("mode code %d out of range", int(mode)))
	}
}

func translateLike(pattern string, escape rune) (string, error) {
	var b strings.Builder
	b.WriteString("^(?s:")

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if escape != NoEscape && r == escape {
			if i+1 == len(runes) {
				return "", patternInvalid(pattern, "escape character at end of pattern", nil)
			}
			next := runes[i+1]
			if next != '%' && next != '_' && next != escape {
				return "", patternInvalid(pattern, fmt.Sprintf("invalid escape sequence %q", string([]rune{r, next})), nil)
			}
			b.WriteString(regexp.QuoteMeta(string(next)))
			i++
			continue
		}
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteString(")$")
	return b.String(), nil
}

// similarMeta are the SIMILAR TO metacharacters that keep their regexp
// meaning outside a bracket expression.
const similarMeta = "|*+?{}()["

func translateSimilar(pattern string, escape rune) (string, error) {
	var b strings.Builder
	b.WriteString("^(?s:")

	runes := []rune(pattern)
	inBracket := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if escape != NoEscape && r == escape {
			if i+1 == len(runes) {
				return "", patternInvalid(pattern, "escape character at end of pattern", nil)
			}
			b.WriteString(regexp.QuoteMeta(string(runes[i+1])))
			i++
			continue
		}
		if inBracket {
			switch r {
			case ']':
				inBracket = false
				b.WriteByte(']')
			case '\\', '[':
				b.WriteString(regexp.QuoteMeta(string(r)))
			default:
				b.WriteRune(r)
			}
			continue
		}
		switch {
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteByte('.')
		case r == '[':
			inBracket = true
			b.WriteByte('[')
		case strings.ContainsRune(similarMeta, r):
			b.WriteRune(r)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if inBracket {
		return "", patternInvalid(pattern, "unterminated bracket expression", nil)
	}

	b.WriteString(")$")
	return b.String(), nil
}
