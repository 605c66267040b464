package world

import "sort"

// Token is an opaque unlock flag: an item, keyword or plot event the player
// can come to possess. Tokens are dense integers assigned in document order;
// names live in the registry, not in the token itself.
type Token int

// TokenSet is a set of tokens. Within one generation attempt membership only
// ever grows.
type TokenSet map[Token]struct{}

func NewTokenSet(tokens ...Token) TokenSet {
	s := make(TokenSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func (s TokenSet) Add(t Token) {
	s[t] = struct{}{}
}

func (s TokenSet) Contains(t Token) bool {
	_, ok := s[t]
	return ok
}

// ContainsAll reports whether every token in other is present in s.
func (s TokenSet) ContainsAll(other TokenSet) bool {
	for t := range other {
		if _, ok := s[t]; !ok {
			return false
		}
	}
	return true
}

func (s TokenSet) Len() int {
	return len(s)
}

// Merge adds every token in other to s.
func (s TokenSet) Merge(other TokenSet) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// Sorted returns the members in ascending order, for deterministic iteration.
func (s TokenSet) Sorted() []Token {
	out := make([]Token, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TokenRegistry maps between token names and their dense integer values.
// The full enumeration doubles as the token universe a seed must cover.
type TokenRegistry struct {
	names []string
	index map[string]Token
}

func NewTokenRegistry(names []string) (*TokenRegistry, error) {
	r := &TokenRegistry{
		names: make([]string, 0, len(names)),
		index: make(map[string]Token, len(names)),
	}
	for _, name := range names {
		if _, exists := r.index[name]; exists {
			return nil, &RefError{Kind: "token", Name: name, Reason: "declared twice"}
		}
		r.index[name] = Token(len(r.names))
		r.names = append(r.names, name)
	}
	return r, nil
}

// Lookup resolves a token name to its value.
func (r *TokenRegistry) Lookup(name string) (Token, bool) {
	t, ok := r.index[name]
	return t, ok
}

// Name returns the registered name for t, or "" if t is out of range.
func (r *TokenRegistry) Name(t Token) string {
	if int(t) < 0 || int(t) >= len(r.names) {
		return ""
	}
	return r.names[t]
}

func (r *TokenRegistry) Count() int {
	return len(r.names)
}

// Universe returns a fresh set containing every registered token.
func (r *TokenRegistry) Universe() TokenSet {
	s := make(TokenSet, len(r.names))
	for i := range r.names {
		s[Token(i)] = struct{}{}
	}
	return s
}
