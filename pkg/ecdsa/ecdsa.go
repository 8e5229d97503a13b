// Package ecdsa implements ECDSA key generation, signing and verification
// over y² = x³ + 7 curves with caller-supplied domain parameters.
//
// The arithmetic is written from first principles on math/big and is not
// constant time. Digests are consumed as integers that the caller has
// already derived from the message.
package ecdsa

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecdsa/internal/crypto/curves"
	"github.com/smallyu/go-ecdsa/internal/crypto/field"
	"github.com/smallyu/go-ecdsa/internal/crypto/randsrc"
)

// DefaultMaxAttempts bounds the nonce retry loop in Sign.
const DefaultMaxAttempts = 64

// KeyPair holds a private scalar D in [1, N-1] and its public point
// Q = D·G. D must be kept secret.
type KeyPair struct {
	D *big.Int
	Q Point
}

// Signature is an ECDSA signature (R, S), both in [1, N-1].
type Signature struct {
	R *big.Int
	S *big.Int
}

// Scheme signs and verifies over a fixed domain. It holds no mutable
// state and is safe for concurrent use if its randomness source is.
type Scheme struct {
	domain      DomainParams
	curve       *curves.Weierstrass
	rand        randsrc.Source
	maxAttempts int
	logger      *zap.Logger
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithRand sets the source private keys and nonces are drawn from. The
// default is randsrc.Default.
func WithRand(src randsrc.Source) Option {
	return func(s *Scheme) {
		s.rand = src
	}
}

// WithMaxAttempts bounds the number of nonces Sign tries before giving up.
func WithMaxAttempts(n int) Option {
	return func(s *Scheme) {
		s.maxAttempts = n
	}
}

// WithLogger sets the logger. Secrets are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheme) {
		s.logger = l
	}
}

// New returns a Scheme over domain. The domain is copied.
func New(domain DomainParams, opts ...Option) (*Scheme, error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}

	s := &Scheme{
		domain:      domain.clone(),
		curve:       curves.NewSecp256k1Shape(domain.P),
		rand:        randsrc.Default,
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rand == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil randomness source")
	}
	if s.maxAttempts < 1 {
		return nil, errors.Wrapf(ErrInvalidInput, "max attempts %d < 1", s.maxAttempts)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// Domain returns a copy of the scheme's domain parameters.
func (s *Scheme) Domain() DomainParams {
	return s.domain.clone()
}

// Curve returns the curve arithmetic the scheme uses.
func (s *Scheme) Curve() curves.Curve {
	return s.curve
}

// GenerateKey draws a private scalar d uniformly from [1, N-1] and returns
// it with its public point d·G.
func (s *Scheme) GenerateKey() (*KeyPair, error) {
	d, err := s.source("ecdsa/key").Int(s.domain.N)
	if err != nil {
		return nil, errors.Wrap(err, "drawing private key")
	}

	keysGenerated.Inc()
	return &KeyPair{
		D: d,
		Q: s.curve.ScalarMult(d, s.domain.G),
	}, nil
}

// source returns the stream draws for label come from. A seeded source
// gets a separate stream per label and inputs, so keys and nonces never
// share a stream and a nonce is bound to the key and digest it signs.
func (s *Scheme) source(label string, inputs ...*big.Int) randsrc.Source {
	if d, ok := s.rand.(randsrc.Deriver); ok {
		return d.Derive(label, inputs...)
	}
	return s.rand
}

// Verify reports whether sig is a valid signature on digest h under the
// public point Q. Malformed input yields false, never an error.
//
// Q is not checked to lie on the curve.
func (s *Scheme) Verify(Q Point, sig *Signature, h *big.Int) bool {
	ok := s.verify(Q, sig, h)
	if ok {
		verifications.WithLabelValues("valid").Inc()
	} else {
		verifications.WithLabelValues("invalid").Inc()
	}
	return ok
}

func (s *Scheme) verify(Q Point, sig *Signature, h *big.Int) bool {
	if sig == nil || sig.R == nil || sig.S == nil || h == nil {
		return false
	}
	n := s.domain.N
	r, sv := sig.R, sig.S

	if !inRange(r, n) || !inRange(sv, n) {
		return false
	}

	w := field.Inverse(sv, n)
	if w.Sign() == 0 {
		return false
	}

	u1 := field.Mul(h, w, n)
	u2 := field.Mul(r, w, n)

	R := s.curve.Add(
		s.curve.ScalarMult(u1, s.domain.G),
		s.curve.ScalarMult(u2, Q),
	)

	x, _, ok := R.Coords()
	if !ok {
		return false
	}
	// x is in [0, P) and is compared with r as is; see DomainParams.
	return x.Cmp(r) == 0
}

// inRange reports whether 1 <= v <= n-1.
func inRange(v, n *big.Int) bool {
	return v.Sign() > 0 && v.Cmp(n) < 0
}
