package oda

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gregLibert/emv-kernel/pkg/bits"
	"github.com/gregLibert/emv-kernel/pkg/capk"
	"github.com/gregLibert/emv-kernel/pkg/emv"
	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// ErrUnknownKey reports that no CA public key matches the RID of the
// application and the CA Public Key Index of the card ('8F').
var ErrUnknownKey = errors.New("CA public key not found")

// Method is an offline data authentication method.
type Method int

const (
	MethodNone Method = iota
	MethodSDA
	MethodDDA
	MethodCDA
)

func (m Method) String() string {
	switch m {
	case MethodSDA:
		return "SDA"
	case MethodDDA:
		return "DDA"
	case MethodCDA:
		return "CDA"
	default:
		return "none"
	}
}

// failedFlag is the TVR bit raised when m fails.
func (m Method) failedFlag() bits.Flag {
	switch m {
	case MethodSDA:
		return emv.TVRSDAFailed
	case MethodDDA:
		return emv.TVRDDAFailed
	default:
		return emv.TVRCDAFailed
	}
}

// SelectMethod picks the strongest method announced by the Application
// Interchange Profile: CDA, then DDA, then SDA.
func SelectMethod(aip []byte) Method {
	switch {
	case emv.AIPCDA.IsSetIn(aip):
		return MethodCDA
	case emv.AIPDDA.IsSetIn(aip):
		return MethodDDA
	case emv.AIPSDA.IsSetIn(aip):
		return MethodSDA
	default:
		return MethodNone
	}
}

// Policy controls which certificate hashes are verified.
type Policy int

const (
	// PolicyStrict verifies every hash.
	PolicyStrict Policy = iota
	// PolicyRelaxed skips the static data hash of the ICC public key
	// certificate and of the Signed Static Application Data.
	PolicyRelaxed
)

func (p Policy) String() string {
	if p == PolicyRelaxed {
		return "relaxed"
	}
	return "strict"
}

// ParsePolicy decodes "strict" or "relaxed". An empty string is strict.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return PolicyStrict, nil
	case "relaxed":
		return PolicyRelaxed, nil
	}
	return PolicyStrict, fmt.Errorf("unknown hash policy %q", s)
}

// KeyStore finds CA public keys.
type KeyStore interface {
	Find(rid []byte, index byte) (capk.Key, bool)
}

// TransactionData is the terminal data the card signed with CDA.
type TransactionData struct {
	// PDOL is the PDOL related data sent with GET PROCESSING OPTIONS.
	PDOL []byte
	// CDOL1 is the CDOL1 related data sent with the first GENERATE AC.
	CDOL1 []byte
}

// Authenticator runs offline data authentication against a transaction
// store. Failed checks are recorded in the TVR.
type Authenticator struct {
	Keys   KeyStore
	Policy Policy
	Logger *slog.Logger
}

func (a *Authenticator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Authenticate selects the method from the AIP, performs it and updates the
// TVR and TSI. The only error is ErrUnknownKey: without a CA public key no
// method can run.
func (a *Authenticator) Authenticate(s *emv.Store, tx TransactionData) (Method, error) {
	m := SelectMethod(s.AIP())
	if m == MethodNone {
		s.SetTVR(emv.TVRDataAuthNotPerformed)
		return m, nil
	}
	if m == MethodSDA {
		s.SetTVR(emv.TVRSDASelected)
	}

	err := a.run(s, m, tx)
	if errors.Is(err, ErrUnknownKey) {
		return m, err
	}

	s.SetTSI(emv.TSIDataAuthPerformed)
	if err != nil {
		if errors.Is(err, ErrMissingData) {
			s.SetTVR(emv.TVRICCDataMissing)
		}
		s.SetTVR(m.failedFlag())
		a.logger().Warn("offline data authentication failed", "method", m, "err", err)
		return m, nil
	}

	a.logger().Debug("offline data authentication succeeded", "method", m)
	return m, nil
}

func (a *Authenticator) run(s *emv.Store, m Method, tx TransactionData) error {
	issuer, err := a.issuerKey(s)
	if len(issuer.Modulus) == 0 {
		return err
	}
	errs := []error{err}

	if m == MethodSDA {
		ssad, err := require(s, "93")
		if err != nil {
			return errors.Join(append(errs, err)...)
		}
		dac, err := VerifySSAD(issuer, ssad, s.StaticData(), a.Policy == PolicyStrict)
		if len(dac) > 0 {
			s.Set("9F45", dac)
		}
		return errors.Join(append(errs, err)...)
	}

	icc, err := a.iccKey(s, issuer)
	errs = append(errs, err)
	if len(icc.Modulus) == 0 {
		return errors.Join(errs...)
	}

	sdad, err := require(s, "9F4B")
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	dyn, err := RecoverSDAD(icc, sdad, s.Value("9F37"))
	errs = append(errs, err)
	if len(dyn.ICCDynamicNumber) > 0 {
		s.Set("9F4C", dyn.ICCDynamicNumber)
	}
	if m == MethodCDA {
		errs = append(errs, a.combined(s, dyn, tx))
	}
	return errors.Join(errs...)
}

// combined checks the parts of the dynamic data that bind the signature to
// the GENERATE AC exchange.
func (a *Authenticator) combined(s *emv.Store, dyn DynamicData, tx TransactionData) error {
	c := checks{object: "combined dynamic data"}

	if len(dyn.Cryptogram) == 0 {
		c.expect(false, "no application cryptogram in the dynamic data")
		return c.err()
	}
	s.Set("9F26", dyn.Cryptogram)

	cid := s.Value("9F27")
	c.expect(string(dyn.CID) == string(cid), "CID %X, GENERATE AC returned %X", dyn.CID, cid)

	tdhc, err := TransactionDataHash(tx.PDOL, tx.CDOL1, s.Value("77"))
	if err != nil {
		return err
	}
	c.expect(string(tdhc) == string(dyn.TransactionDataHash), "transaction data hash mismatch")
	return c.err()
}

func (a *Authenticator) issuerKey(s *emv.Store) (PublicKey, error) {
	aid := s.AID()
	if len(aid) < capk.RIDLength {
		return PublicKey{}, fmt.Errorf("AID %X: %w", aid, ErrMissingData)
	}
	index, err := require(s, "8F")
	if err != nil {
		return PublicKey{}, err
	}

	rid := aid[:capk.RIDLength]
	if a.Keys == nil {
		return PublicKey{}, fmt.Errorf("%X/%02X: %w", rid, index[0], ErrUnknownKey)
	}
	ca, ok := a.Keys.Find(rid, index[0])
	if !ok {
		return PublicKey{}, fmt.Errorf("%X/%02X: %w", rid, index[0], ErrUnknownKey)
	}

	cert, err := require(s, "90")
	if err != nil {
		return PublicKey{}, err
	}
	exponent, err := require(s, "9F32")
	if err != nil {
		return PublicKey{}, err
	}

	a.logger().Debug("CA public key", "key", ca.String())
	caKey := PublicKey{Modulus: ca.Modulus, Exponent: ca.Exponent}
	return RecoverIssuerKey(caKey, cert, s.Value("92"), exponent, s.PAN())
}

func (a *Authenticator) iccKey(s *emv.Store, issuer PublicKey) (PublicKey, error) {
	cert, err := require(s, "9F46")
	if err != nil {
		return PublicKey{}, err
	}
	exponent, err := require(s, "9F47")
	if err != nil {
		return PublicKey{}, err
	}
	return RecoverICCKey(issuer, cert, s.Value("9F48"), exponent, s.PAN(), s.StaticData(), a.Policy == PolicyStrict)
}

func require(s *emv.Store, tag tlv.Tag) ([]byte, error) {
	v := s.Value(tag)
	if len(v) == 0 {
		return nil, fmt.Errorf("tag %s: %w", tag, ErrMissingData)
	}
	return v, nil
}
