// Package interop converts between this module's secp256k1 values and the
// decred and btcec libraries, mainly to cross-check signatures.
package interop

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/smallyu/go-ecdsa/internal/crypto/curves"
	"github.com/smallyu/go-ecdsa/pkg/ecdsa"
)

var (
	ErrNotSecp256k1  = errors.New("interop: domain is not secp256k1")
	ErrInfinity      = errors.New("interop: point at infinity has no encoding")
	ErrNotOnCurve    = errors.New("interop: point is not on secp256k1")
	ErrDigestTooLong = errors.New("interop: digest does not fit in 32 bytes")
)

var ref = curves.NewReference()

// IsSecp256k1 reports whether d describes the secp256k1 group.
func IsSecp256k1(d ecdsa.DomainParams) bool {
	std := ecdsa.Secp256k1()
	return d.P != nil && d.N != nil &&
		d.P.Cmp(std.P) == 0 && d.N.Cmp(std.N) == 0 && d.G.Equal(std.G)
}

// PublicKey converts Q to a decred public key.
func PublicKey(Q curves.Point) (*secp256k1.PublicKey, error) {
	x, y, ok := Q.Coords()
	if !ok {
		return nil, ErrInfinity
	}
	if !ref.IsOnCurve(Q) {
		return nil, ErrNotOnCurve
	}

	var fx, fy secp256k1.FieldVal
	fx.SetByteSlice(x.Bytes())
	fy.SetByteSlice(y.Bytes())
	return secp256k1.NewPublicKey(&fx, &fy), nil
}

// SerializeCompressed returns the 33-byte SEC 1 compressed encoding of Q.
func SerializeCompressed(Q curves.Point) ([]byte, error) {
	pk, err := PublicKey(Q)
	if err != nil {
		return nil, err
	}
	return pk.SerializeCompressed(), nil
}

// ParsePublicKey decodes a SEC 1 compressed or uncompressed public key.
func ParsePublicKey(b []byte) (curves.Point, error) {
	pk, err := btcec.ParsePubKey(b)
	if err != nil {
		return curves.Infinity(), err
	}
	return curves.NewPoint(pk.X(), pk.Y()), nil
}

// VerifyReference verifies sig over digest h with the decred
// implementation. h must fit in 32 bytes.
func VerifyReference(Q curves.Point, sig *ecdsa.Signature, h *big.Int) (bool, error) {
	if sig == nil || sig.R == nil || sig.S == nil || h == nil {
		return false, nil
	}
	if h.Sign() < 0 || h.BitLen() > 256 {
		return false, ErrDigestTooLong
	}
	pk, err := PublicKey(Q)
	if err != nil {
		return false, err
	}
	if sig.R.Sign() <= 0 || sig.S.Sign() <= 0 || sig.R.BitLen() > 256 || sig.S.BitLen() > 256 {
		return false, nil
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig.R.Bytes()); overflow {
		return false, nil
	}
	if overflow := s.SetByteSlice(sig.S.Bytes()); overflow {
		return false, nil
	}

	hash := h.FillBytes(make([]byte, 32))
	return decredecdsa.NewSignature(&r, &s).Verify(hash, pk), nil
}

// FromReferenceSignature converts a decred signature.
func FromReferenceSignature(sig *decredecdsa.Signature) *ecdsa.Signature {
	r, s := sig.R(), sig.S()
	rb, sb := r.Bytes(), s.Bytes()
	return &ecdsa.Signature{
		R: new(big.Int).SetBytes(rb[:]),
		S: new(big.Int).SetBytes(sb[:]),
	}
}
