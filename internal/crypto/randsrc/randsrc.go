// Package randsrc provides the randomness sources the signature protocol
// draws private keys and nonces from.
package randsrc

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrEmptyRange = errors.New("randsrc: range [1, n-1] is empty")
	ErrExhausted  = errors.New("randsrc: fixed source exhausted")
	ErrOutOfRange = errors.New("randsrc: fixed value outside [1, n-1]")
)

var one = big.NewInt(1)

// Source produces uniform random integers in [1, n-1].
type Source interface {
	Int(n *big.Int) (*big.Int, error)
}

// Default draws from crypto/rand.Reader and is safe for concurrent use.
var Default Source = NewReader(rand.Reader)

type readerSource struct {
	r io.Reader
}

// NewReader returns a Source that samples from r. The source is as safe
// for concurrent use as r is.
func NewReader(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) Int(n *big.Int) (*big.Int, error) {
	if n.Cmp(one) <= 0 {
		return nil, ErrEmptyRange
	}
	// Uniform in [0, n-2], shifted to [1, n-1].
	k, err := rand.Int(s.r, new(big.Int).Sub(n, one))
	if err != nil {
		return nil, err
	}
	return k.Add(k, one), nil
}

// keystream is an endless reader over a ChaCha20 keystream.
type keystream struct {
	c *chacha20.Cipher
}

func (k *keystream) Read(p []byte) (int, error) {
	clear(p)
	k.c.XORKeyStream(p, p)
	return len(p), nil
}

// Deriver is a Source that can split off independent streams bound to a
// label and a list of integers.
type Deriver interface {
	Source
	Derive(label string, inputs ...*big.Int) Source
}

// Deterministic is a seeded Source. Its own stream is ChaCha20 keyed by the
// seed; Derive keys a fresh stream with HKDF-SHA256 over the seed, the
// label and the inputs. It is meant for tests and reproducible examples,
// never for real keys. Not safe for concurrent use.
type Deterministic struct {
	Source
	seed    []byte
	streams map[string]Source
}

// NewDeterministic returns a Deterministic source for seed, which must be
// chacha20.KeySize bytes.
func NewDeterministic(seed []byte) (*Deterministic, error) {
	if len(seed) != chacha20.KeySize {
		return nil, errors.Errorf("randsrc: seed must be %d bytes, got %d", chacha20.KeySize, len(seed))
	}
	src, err := newStream(seed)
	if err != nil {
		return nil, err
	}
	return &Deterministic{
		Source:  src,
		seed:    append([]byte(nil), seed...),
		streams: make(map[string]Source),
	}, nil
}

// Derive returns the stream for (label, inputs). Asking again with equal
// arguments continues the same stream; any difference gives an unrelated
// one. Two sources with the same seed derive identical streams.
func (d *Deterministic) Derive(label string, inputs ...*big.Int) Source {
	info := binary.BigEndian.AppendUint32(nil, uint32(len(label)))
	info = append(info, label...)
	for _, v := range inputs {
		b := v.Bytes()
		info = append(info, byte(v.Sign()+1))
		info = binary.BigEndian.AppendUint32(info, uint32(len(b)))
		info = append(info, b...)
	}

	if src, ok := d.streams[string(info)]; ok {
		return src
	}

	key := make([]byte, chacha20.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, d.seed, nil, info), key); err != nil {
		// HKDF only fails past 255 hash blocks of output.
		panic(err)
	}
	src, err := newStream(key)
	if err != nil {
		panic(err)
	}
	d.streams[string(info)] = src
	return src
}

func newStream(key []byte) (Source, error) {
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, err
	}
	return NewReader(&keystream{c: c}), nil
}

// Fixed replays a fixed sequence of values. It lets tests pin the private
// key or the signing nonce. Not safe for concurrent use.
type Fixed struct {
	values []*big.Int
	next   int
}

// NewFixed returns a Fixed source yielding values in order.
func NewFixed(values ...*big.Int) *Fixed {
	vs := make([]*big.Int, len(values))
	for i, v := range values {
		vs[i] = new(big.Int).Set(v)
	}
	return &Fixed{values: vs}
}

func (f *Fixed) Int(n *big.Int) (*big.Int, error) {
	if n.Cmp(one) <= 0 {
		return nil, ErrEmptyRange
	}
	if f.next >= len(f.values) {
		return nil, ErrExhausted
	}
	v := f.values[f.next]
	f.next++
	if v.Sign() <= 0 || v.Cmp(n) >= 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "%s not in [1, %s)", v, n)
	}
	return new(big.Int).Set(v), nil
}

// Remaining returns how many values have not been consumed yet.
func (f *Fixed) Remaining() int {
	return len(f.values) - f.next
}
