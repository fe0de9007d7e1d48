package types

import (
	"github.com/cockroachdb/errors"
)

// Enumerations travel as their lower-case names so resolved units stay
// readable in JSON and YAML. msgpack goes through the same text hooks.

func (k Kind) MarshalText() ([]byte, error) {
	if k >= kindCount {
		return nil, errors.Newf("unknown type kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return errors.Newf("unknown type kind %q", s)
}

func (p Prim) MarshalText() ([]byte, error) {
	if p >= primCount {
		return nil, errors.Newf("unknown primitive %d", p)
	}
	return []byte(primNames[p]), nil
}

func (p *Prim) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range primNames {
		if name == s {
			*p = Prim(i)
			return nil
		}
	}
	return errors.Newf("unknown primitive %q", s)
}

func (i Indirect) MarshalText() ([]byte, error) {
	if int(i) >= len(indirectNames) {
		return nil, errors.Newf("unknown indirection %d", i)
	}
	return []byte(indirectNames[i]), nil
}

func (i *Indirect) UnmarshalText(b []byte) error {
	s := string(b)
	for n, name := range indirectNames {
		if name == s {
			*i = Indirect(n)
			return nil
		}
	}
	return errors.Newf("unknown indirection %q", s)
}
