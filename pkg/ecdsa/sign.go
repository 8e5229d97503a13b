package ecdsa

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecdsa/internal/crypto/field"
)

// Rejection is the reason a signing attempt was discarded.
type Rejection int

const (
	// Accepted means the attempt produced a signature.
	Accepted Rejection = iota
	// RejectRInfinity means k·G was the point at infinity.
	RejectRInfinity
	// RejectZeroR means the x-coordinate of k·G was zero.
	RejectZeroR
	// RejectNoInverse means k had no inverse modulo N.
	RejectNoInverse
	// RejectZeroS means s came out as zero.
	RejectZeroS
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectRInfinity:
		return "r_infinity"
	case RejectZeroR:
		return "r_zero"
	case RejectNoInverse:
		return "k_no_inverse"
	case RejectZeroS:
		return "s_zero"
	default:
		return "unknown"
	}
}

// Sign signs the digest h with the private scalar d.
//
// Each attempt draws a fresh nonce k and runs
// DrawNonce -> ComputeR -> CheckR -> ComputeKInv -> ComputeS -> CheckS;
// any failed check starts a new attempt. After the configured number of
// attempts Sign returns a *RetryError.
//
// Reusing a nonce for two digests under the same d reveals d, so the
// randomness source must never repeat values.
func (s *Scheme) Sign(d, h *big.Int) (*Signature, error) {
	if d == nil || h == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil private key or digest")
	}

	src := s.source("ecdsa/nonce", d, h)
	last := Accepted
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		// DrawNonce
		k, err := src.Int(s.domain.N)
		if err != nil {
			return nil, errors.Wrap(err, "drawing nonce")
		}

		sig, reason := s.signWithNonce(d, h, k)
		if reason == Accepted {
			signaturesCreated.Inc()
			return sig, nil
		}

		last = reason
		signRejections.WithLabelValues(reason.String()).Inc()
		s.logger.Debug("signing attempt rejected",
			zap.Int("attempt", attempt),
			zap.Stringer("reason", reason),
		)
	}

	s.logger.Warn("signing gave up",
		zap.Int("attempts", s.maxAttempts),
		zap.Stringer("last", last),
		zap.String("domain", s.domain.Name),
	)
	return nil, &RetryError{Attempts: s.maxAttempts, Last: last}
}

// signWithNonce runs a single signing attempt with nonce k.
func (s *Scheme) signWithNonce(d, h, k *big.Int) (*Signature, Rejection) {
	n := s.domain.N

	// ComputeR, CheckR
	R := s.curve.ScalarMult(k, s.domain.G)
	r, _, ok := R.Coords()
	if !ok {
		return nil, RejectRInfinity
	}
	if r.Sign() == 0 {
		return nil, RejectZeroR
	}

	// ComputeKInv
	kInv := field.Inverse(k, n)
	if kInv.Sign() == 0 {
		return nil, RejectNoInverse
	}

	// ComputeS, CheckS: s = k⁻¹(h + r·d) mod N
	sv := field.Mul(kInv, field.Add(h, field.Mul(r, d, n), n), n)
	if sv.Sign() == 0 {
		return nil, RejectZeroS
	}

	return &Signature{R: r, S: sv}, Accepted
}
