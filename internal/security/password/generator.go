package password

import "strings"

// Generate returns a password of exactly p.Length characters drawn from the
// effective alphabet, with at least one character of every selected class
// when p.Length allows it.
//
// Missing classes are patched in before the shuffle. When p.Length covers
// every selected class, patches go to the lowest positions that are not the
// first occurrence of a class already present, so no patch erases a class.
// With fewer positions than classes, patches land at positions 0, 1, 2...
// modulo p.Length and later ones overwrite earlier ones.
func Generate(p Policy, src RandomSource) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	alphabet := p.Alphabet()

	chars := make([]byte, p.Length)
	for i := range chars {
		c, err := pick(alphabet, src)
		if err != nil {
			return "", err
		}
		chars[i] = c
	}

	if err := guarantee(chars, p, src); err != nil {
		return "", err
	}
	if err := shuffle(chars, src); err != nil {
		return "", err
	}
	return string(chars), nil
}

// guarantee writes one character of every selected class missing from chars.
func guarantee(chars []byte, p Policy, src RandomSource) error {
	classes := p.selected()
	sets := make([]string, len(classes))
	for i, c := range classes {
		sets[i] = c.filtered(p.ExcludeSimilar)
	}

	draft := string(chars)

	// taken marks the one position that witnesses each present class;
	// nil when there are too few positions to keep every class.
	var taken []bool
	if len(chars) >= len(classes) {
		taken = make([]bool, len(chars))
		for _, set := range sets {
			if i := strings.IndexAny(draft, set); set != "" && i >= 0 {
				taken[i] = true
			}
		}
	}

	pos := 0
	for _, set := range sets {
		if set == "" || strings.ContainsAny(draft, set) {
			continue
		}
		c, err := pick(set, src)
		if err != nil {
			return err
		}
		if taken == nil {
			chars[pos%len(chars)] = c
			pos++
			continue
		}
		for taken[pos] {
			pos++
		}
		chars[pos] = c
		taken[pos] = true
	}
	return nil
}

// pick reduces a sample modulo len(set); the slight bias is accepted.
func pick(set string, src RandomSource) (byte, error) {
	v, err := src.Uint32()
	if err != nil {
		return 0, err
	}
	return set[v%uint32(len(set))], nil
}

// shuffle is Fisher-Yates over src.
func shuffle(b []byte, src RandomSource) error {
	for i := len(b) - 1; i > 0; i-- {
		v, err := src.Uint32()
		if err != nil {
			return err
		}
		j := int(v % uint32(i+1))
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
