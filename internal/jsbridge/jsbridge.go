// Package jsbridge exposes key generation, signing and verification over
// JSON strings for the WebAssembly build. Integers travel as decimal
// strings because JavaScript numbers lose precision past 2^53.
package jsbridge

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecdsa/pkg/ecdsa"
)

// Domain selects a preset by Curve or gives the parameters explicitly.
type Domain struct {
	Curve string `json:"curve,omitempty"`
	P     string `json:"p,omitempty"`
	O     string `json:"o,omitempty"`
	Gx    string `json:"gx,omitempty"`
	Gy    string `json:"gy,omitempty"`
}

type GenKeyRequest struct {
	Domain
}

type GenKeyResponse struct {
	D  string `json:"d"`
	Qx string `json:"qx"`
	Qy string `json:"qy"`
}

type SignRequest struct {
	Domain
	D string `json:"d"`
	H string `json:"h"`
}

type SignResponse struct {
	R string `json:"r"`
	S string `json:"s"`
}

type VerifyRequest struct {
	Domain
	Qx string `json:"qx"`
	Qy string `json:"qy"`
	R  string `json:"r"`
	S  string `json:"s"`
	H  string `json:"h"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// Bridge builds a scheme per request with the same options.
type Bridge struct {
	opts []ecdsa.Option
}

func New(opts ...ecdsa.Option) *Bridge {
	return &Bridge{opts: opts}
}

func (b *Bridge) GenerateKey(req string) (string, error) {
	var in GenKeyRequest
	s, err := b.decode(req, &in, &in.Domain)
	if err != nil {
		return "", err
	}
	kp, err := s.GenerateKey()
	if err != nil {
		return "", err
	}
	x, y, ok := kp.Q.Coords()
	if !ok {
		return "", errors.New("public key is the point at infinity")
	}
	return encode(GenKeyResponse{D: kp.D.String(), Qx: x.String(), Qy: y.String()})
}

func (b *Bridge) Sign(req string) (string, error) {
	var in SignRequest
	s, err := b.decode(req, &in, &in.Domain)
	if err != nil {
		return "", err
	}
	ints, err := parse(in.D, in.H)
	if err != nil {
		return "", err
	}
	sig, err := s.Sign(ints[0], ints[1])
	if err != nil {
		return "", err
	}
	return encode(SignResponse{R: sig.R.String(), S: sig.S.String()})
}

func (b *Bridge) Verify(req string) (string, error) {
	var in VerifyRequest
	s, err := b.decode(req, &in, &in.Domain)
	if err != nil {
		return "", err
	}
	ints, err := parse(in.Qx, in.Qy, in.R, in.S, in.H)
	if err != nil {
		return "", err
	}
	Q := ecdsa.NewPoint(ints[0], ints[1])
	valid := s.Verify(Q, &ecdsa.Signature{R: ints[2], S: ints[3]}, ints[4])
	return encode(VerifyResponse{Valid: valid})
}

func (b *Bridge) decode(req string, v interface{}, d *Domain) (*ecdsa.Scheme, error) {
	if err := json.Unmarshal([]byte(req), v); err != nil {
		return nil, errors.Wrap(err, "invalid json")
	}
	params, err := d.params()
	if err != nil {
		return nil, err
	}
	return ecdsa.New(params, b.opts...)
}

func (d Domain) params() (ecdsa.DomainParams, error) {
	if d.Curve != "" {
		return ecdsa.LookupDomain(d.Curve)
	}
	ints, err := parse(d.P, d.O, d.Gx, d.Gy)
	if err != nil {
		return ecdsa.DomainParams{}, errors.Wrap(err, "domain")
	}
	return ecdsa.NewDomain(ints[0], ints[1], ints[2], ints[3]), nil
}

func parse(ss ...string) ([]*big.Int, error) {
	out := make([]*big.Int, len(ss))
	for i, s := range ss {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, errors.Errorf("not a decimal integer: %q", s)
		}
		out[i] = v
	}
	return out, nil
}

func encode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
