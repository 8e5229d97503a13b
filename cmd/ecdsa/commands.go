package main

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecdsa/internal/config"
	"github.com/smallyu/go-ecdsa/internal/interop"
	"github.com/smallyu/go-ecdsa/pkg/ecdsa"
)

func newGenKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "genkey",
		Usage:     "generate a key pair; prints d, Qx, Qy",
		ArgsUsage: "p o Gx Gy",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "compressed",
				Usage: "also print the SEC 1 compressed public key (secp256k1 only)",
			},
		}, commonFlags()...),
		Action: runGenKey,
	}
}

func newSignCommand() *cli.Command {
	return &cli.Command{
		Name:      "sign",
		Usage:     "sign an integer digest; prints r, s",
		ArgsUsage: "p o Gx Gy d h",
		Flags:     commonFlags(),
		Action:    runSign,
	}
}

func newVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "verify a signature; prints True or False",
		ArgsUsage: "p o Gx Gy Qx Qy r s h",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "crosscheck",
				Usage: "also verify with the decred secp256k1 implementation (secp256k1 only)",
			},
		}, commonFlags()...),
		Action: runVerify,
	}
}

func newUserIDCommand() *cli.Command {
	return &cli.Command{
		Name:   "userid",
		Usage:  "print the configured user id (user_id / ECDSA_USER_ID)",
		Action: runUserID,
	}
}

func newCurvesCommand() *cli.Command {
	return &cli.Command{
		Name:   "curves",
		Usage:  "list preset domains",
		Action: runCurves,
	}
}

// session is the per-invocation state every command builds first.
type session struct {
	scheme *ecdsa.Scheme
	domain ecdsa.DomainParams
	args   []*big.Int
	logger *zap.Logger
}

// newSession resolves configuration, parses the positional integers and
// builds the scheme. nargs is the number of arguments after the domain.
func newSession(cctx *cli.Context, nargs int) (*session, error) {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return nil, err
	}
	if cctx.IsSet("log-level") {
		cfg.LogLevel = cctx.String("log-level")
	}
	if cctx.IsSet("seed") {
		cfg.Seed = cctx.String("seed")
	}
	if cctx.IsSet("curve") {
		cfg.Domain = cctx.String("curve")
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log-level")
	}

	var domain ecdsa.DomainParams
	rest := cctx.Args().Slice()
	if cfg.Domain != "" {
		domain, err = ecdsa.LookupDomain(cfg.Domain)
		if err != nil {
			return nil, err
		}
	} else {
		if len(rest) < 4 {
			return nil, usageError(cctx)
		}
		ints, err := parseInts(rest[:4])
		if err != nil {
			return nil, err
		}
		domain = ecdsa.NewDomain(ints[0], ints[1], ints[2], ints[3])
		rest = rest[4:]
	}

	if len(rest) != nargs {
		return nil, usageError(cctx)
	}
	args, err := parseInts(rest)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.Options(logger)
	if err != nil {
		return nil, err
	}
	scheme, err := ecdsa.New(domain, opts...)
	if err != nil {
		return nil, err
	}

	logger.Debug("session ready",
		zap.String("command", cctx.Command.Name),
		zap.String("domain", domain.Name),
		zap.Stringer("p", domain.P),
		zap.Stringer("o", domain.N),
	)
	return &session{scheme: scheme, domain: domain, args: args, logger: logger}, nil
}

func usageError(cctx *cli.Context) error {
	return errors.Errorf("usage: %s %s", cctx.Command.Name, cctx.Command.ArgsUsage)
}

func parseInts(ss []string) ([]*big.Int, error) {
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

func runGenKey(cctx *cli.Context) error {
	sess, err := newSession(cctx, 0)
	if err != nil {
		return err
	}
	defer sess.logger.Sync()

	compressed := cctx.Bool("compressed")
	if compressed && !interop.IsSecp256k1(sess.domain) {
		return interop.ErrNotSecp256k1
	}

	kp, err := sess.scheme.GenerateKey()
	if err != nil {
		return err
	}
	x, y, ok := kp.Q.Coords()
	if !ok {
		return errors.New("public key is the point at infinity; check the domain parameters")
	}

	w := cctx.App.Writer
	fmt.Fprintln(w, kp.D)
	fmt.Fprintln(w, x)
	fmt.Fprintln(w, y)

	if compressed {
		enc, err := interop.SerializeCompressed(kp.Q)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, hex.EncodeToString(enc))
	}
	return nil
}

func runSign(cctx *cli.Context) error {
	sess, err := newSession(cctx, 2)
	if err != nil {
		return err
	}
	defer sess.logger.Sync()

	sig, err := sess.scheme.Sign(sess.args[0], sess.args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(cctx.App.Writer, sig.R)
	fmt.Fprintln(cctx.App.Writer, sig.S)
	return nil
}

func runVerify(cctx *cli.Context) error {
	sess, err := newSession(cctx, 5)
	if err != nil {
		return err
	}
	defer sess.logger.Sync()

	a := sess.args
	Q := ecdsa.NewPoint(a[0], a[1])
	sig := &ecdsa.Signature{R: a[2], S: a[3]}
	h := a[4]

	valid := sess.scheme.Verify(Q, sig, h)

	if cctx.Bool("crosscheck") {
		if !interop.IsSecp256k1(sess.domain) {
			return interop.ErrNotSecp256k1
		}
		ref, err := interop.VerifyReference(Q, sig, h)
		if err != nil {
			return errors.Wrap(err, "reference verification")
		}
		if ref != valid {
			sess.logger.Error("verification disagrees with reference",
				zap.Bool("ours", valid),
				zap.Bool("reference", ref),
			)
			return errors.Errorf("verification mismatch: ours=%t reference=%t", valid, ref)
		}
	}

	if valid {
		fmt.Fprintln(cctx.App.Writer, "True")
	} else {
		fmt.Fprintln(cctx.App.Writer, "False")
	}
	return nil
}

func runCurves(cctx *cli.Context) error {
	w := cctx.App.Writer
	for _, name := range ecdsa.DomainNames() {
		d, err := ecdsa.LookupDomain(name)
		if err != nil {
			return err
		}
		gx, gy, _ := d.G.Coords()
		fmt.Fprintf(w, "%s\n  p  = %s\n  o  = %s\n  Gx = %s\n  Gy = %s\n", name, d.P, d.N, gx, gy)
	}
	return nil
}

func runUserID(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}
	if cfg.UserID == "" {
		return errors.New("no user id configured; set user_id in the config file or ECDSA_USER_ID")
	}
	fmt.Fprintln(cctx.App.Writer, cfg.UserID)
	return nil
}
