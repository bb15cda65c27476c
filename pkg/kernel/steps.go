package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gregLibert/emv-kernel/pkg/emv"
	"github.com/gregLibert/emv-kernel/pkg/iso7816"
	"github.com/gregLibert/emv-kernel/pkg/oda"
	"github.com/gregLibert/emv-kernel/pkg/terminal"
)

// maxRecord bounds the directory records read from a PSE.
const maxRecord = 30

// send transmits cmd and reports the exchange at debug level. Only
// transmission failures are errors; the status word is left to the caller.
func (k *Kernel) send(name string, cmd *iso7816.CommandAPDU) (iso7816.Trace, error) {
	trace, err := k.client.Send(cmd)
	if err != nil {
		if errors.Is(err, iso7816.ErrTransmit) {
			return nil, k.fail(ErrTransport, fmt.Errorf("%s: %w", name, err))
		}
		return nil, k.fail(ErrProtocol, fmt.Errorf("%s: %w", name, err))
	}
	if k.logger.Enabled(context.Background(), slog.LevelDebug) {
		k.logger.Debug("exchange", "state", k.target.String(), "report", iso7816.DescribeTrace(trace))
	}
	return trace, nil
}

// expect sends cmd and fails the step unless the card answers 9000.
func (k *Kernel) expect(name string, cmd *iso7816.CommandAPDU) ([]byte, error) {
	trace, err := k.send(name, cmd)
	if err != nil {
		return nil, err
	}
	if !trace.IsSuccess() {
		return nil, k.fail(ErrProtocol, &StatusError{Command: name, Status: trace.Status()})
	}
	return trace.Data(), nil
}

// selectDirectory selects the PPSE (contactless) or the PSE (contact) and
// builds the candidate list from its directory.
func (k *Kernel) selectDirectory(context.Context) error {
	name := emv.PPSE
	if k.iface == Contact {
		name = emv.PSE
	}

	data, err := k.expect("SELECT "+string(name), emv.SelectApplication(name))
	if err != nil {
		return err
	}
	fci, err := emv.ParseFCI(data)
	if err != nil {
		return k.fail(ErrProtocol, fmt.Errorf("%s FCI: %w", name, err))
	}
	k.logger.Debug("directory", "report", fci.Describe())

	apps := fci.Applications()
	if sfi := fci.ProprietaryTemplate.SFI; len(apps) == 0 && sfi != 0 {
		if apps, err = k.readDirectory(sfi); err != nil {
			return err
		}
	}

	k.candidates = emv.NewCandidateList(apps)
	if len(k.candidates) == 0 {
		return k.fail(ErrProtocol, fmt.Errorf("%s lists no application", name))
	}
	for i, c := range k.candidates {
		k.logger.Debug("candidate", "rank", i+1, "aid", fmt.Sprintf("%X", c.AID), "label", c.Label, "priority", c.Priority&0x0F)
	}
	return nil
}

// readDirectory reads the PSE directory records until the card reports
// that no record is left.
func (k *Kernel) readDirectory(sfi byte) ([]emv.ApplicationTemplate, error) {
	var apps []emv.ApplicationTemplate
	for rec := 1; rec <= maxRecord; rec++ {
		trace, err := k.send("READ RECORD", emv.ReadRecord(sfi, byte(rec)))
		if err != nil {
			return nil, err
		}
		if trace.Status() == iso7816.SW_ERR_RECORD_NOT_FOUND {
			break
		}
		if !trace.IsSuccess() {
			return nil, k.fail(ErrProtocol, &StatusError{Command: "READ RECORD", Status: trace.Status()})
		}

		record, err := emv.ParseDirectoryRecord(trace.Data())
		if err != nil {
			return nil, k.fail(ErrProtocol, fmt.Errorf("directory record %d: %w", rec, err))
		}
		k.logger.Debug("directory record", "record", rec, "report", record.Describe())
		apps = append(apps, record.Applications...)
	}
	return apps, nil
}

// initiate selects the best remaining candidate and gets its processing
// options. A candidate whose GET PROCESSING OPTIONS is refused with '6985'
// is dropped and the next one is tried on a fresh store.
func (k *Kernel) initiate(ctx context.Context) error {
	for {
		c := k.candidates[0]
		k.candidates = k.candidates[1:]

		err := k.advance(ctx, StateApplicationSelected, func(context.Context) error {
			return k.selectApplication(c)
		})
		if err == nil {
			err = k.advance(ctx, StateProcessingOptionsObtained, k.getProcessingOptions)
		}

		var serr *StatusError
		if !errors.As(err, &serr) || !serr.Status.IsConditionsNotSatisfied() || len(k.candidates) == 0 {
			return err
		}

		k.logger.Info("application refused, trying the next candidate",
			"aid", fmt.Sprintf("%X", c.AID),
			"next", fmt.Sprintf("%X", k.candidates[0].AID),
		)
		if err := k.store.Reset(); err != nil {
			return k.fail(ErrProtocol, err)
		}
		k.pdolData = nil
		k.state = StateDirectorySelected
	}
}

// selectApplication selects c, then applies the terminal parameters of the
// application and the transaction inputs.
func (k *Kernel) selectApplication(c emv.Candidate) error {
	data, err := k.expect("SELECT", emv.SelectApplication(c.AID))
	if err != nil {
		return err
	}
	fci, err := emv.ParseFCI(data)
	if err != nil {
		return k.fail(ErrProtocol, fmt.Errorf("application FCI: %w", err))
	}
	k.logger.Debug("application", "report", fci.Describe())

	k.store.Merge(fci.Tags())
	k.store.Set("4F", c.AID)

	profile, err := k.terminal.Lookup(c.AID)
	if errors.Is(err, terminal.ErrUnsupportedAID) {
		return k.fail(ErrDeclined, err)
	}
	if err != nil {
		return k.fail(ErrProtocol, err)
	}
	for _, tag := range profile.SortedTags() {
		k.store.Set(tag, profile.Tags[tag])
	}
	k.store.Set("9F06", profile.AID)
	k.applyInputs()

	k.logger.Debug("terminal profile", "profile", profile.String(), "kernel", profile.Family().Kernel())

	if limit, ok := k.store.TransactionLimit(); ok && k.iface == Contactless && k.store.Amount() > limit {
		return k.fail(ErrDeclined, fmt.Errorf("amount %d above the contactless transaction limit %d", k.store.Amount(), limit))
	}
	return nil
}

func (k *Kernel) applyInputs() {
	if k.amount != nil {
		k.store.Set("9F02", emv.FormatBCD(*k.amount, 6))
	}
	if k.otherAmount != nil {
		k.store.Set("9F03", emv.FormatBCD(*k.otherAmount, 6))
	}
	if k.txType != nil {
		k.store.Set("9C", []byte{*k.txType})
	}
}

func (k *Kernel) getProcessingOptions(context.Context) error {
	pdol, err := emv.ParseDOL(k.store.Value("9F38"))
	if err != nil {
		return k.fail(ErrProtocol, fmt.Errorf("PDOL: %w", err))
	}
	k.pdolData = emv.RenderDOL(pdol, k.store)

	trace, err := k.send("GET PROCESSING OPTIONS", emv.GetProcessingOptions(emv.RenderPDOL(pdol, k.store)))
	if err != nil {
		return err
	}
	if sw := trace.Status(); !trace.IsSuccess() {
		serr := &StatusError{Command: "GET PROCESSING OPTIONS", Status: sw}
		if sw.IsReferencedDataInvalidated() {
			return k.fail(ErrTryOtherInterface, serr)
		}
		return k.fail(ErrProtocol, serr)
	}

	list, err := emv.ParseGPOResponse(trace.Data())
	if err != nil {
		return k.fail(ErrProtocol, fmt.Errorf("GET PROCESSING OPTIONS response: %w", err))
	}
	k.store.Merge(list)
	if !k.store.Has("82") {
		return k.fail(ErrProtocol, errors.New("no Application Interchange Profile"))
	}
	return nil
}

func (k *Kernel) readRecords(context.Context) error {
	for _, e := range emv.ParseAFL(k.store.Value("94")) {
		k.logger.Debug("AFL", "entry", e.String())
		for _, rec := range e.Records() {
			data, err := k.expect("READ RECORD", emv.ReadRecord(e.SFI, rec))
			if err != nil {
				return err
			}
			if err := k.store.AddRecord(e.SFI, data, e.IsOffline(rec)); err != nil {
				return k.fail(ErrProtocol, err)
			}
		}
	}
	return nil
}

func (k *Kernel) checkRestrictions(context.Context) error {
	k.store.CheckRestrictions()
	return nil
}

func (k *Kernel) processCVM(context.Context) error {
	k.store.ProcessCVM()
	k.logger.Debug("cardholder verification", "result", fmt.Sprintf("%X", k.store.CVMResult().Bytes()))
	return nil
}

func (k *Kernel) manageRisk(context.Context) error {
	k.store.ManageRisk()
	return nil
}

func (k *Kernel) analyzeActions(context.Context) error {
	k.p1 = k.store.AnalyzeActions()
	if k.logger.Enabled(context.Background(), slog.LevelDebug) {
		k.logger.Debug("terminal action analysis",
			"decision", emv.CryptogramName(k.p1),
			"p1", fmt.Sprintf("%02X", k.p1),
			"tvr", k.store.TVR().Describe(),
		)
	}
	return nil
}

func (k *Kernel) generateAC(context.Context) error {
	cdol1, err := emv.ParseDOL(k.store.Value("8C"))
	if err != nil {
		return k.fail(ErrProtocol, fmt.Errorf("CDOL1: %w", err))
	}
	if len(cdol1) == 0 {
		return k.fail(ErrProtocol, errors.New("no CDOL1"))
	}
	k.cdol1Data = emv.RenderDOL(cdol1, k.store)

	data, err := k.expect("GENERATE AC", emv.GenerateAC(k.p1, k.cdol1Data))
	if err != nil {
		return err
	}
	list, err := emv.ParseGenerateACResponse(data)
	if err != nil {
		return k.fail(ErrProtocol, fmt.Errorf("GENERATE AC response: %w", err))
	}

	k.store.Merge(list)
	if t, ok := list.Find("77"); ok {
		k.store.Set("77", t.Value)
	}
	if !k.store.Has("9F36") {
		k.store.SetTVR(emv.TVRICCDataMissing)
	}

	cid := k.store.Value("9F27")
	if len(cid) > 0 {
		k.logger.Debug("cryptogram", "type", emv.CryptogramName(cid[0]), "ac", fmt.Sprintf("%X", k.store.Value("9F26")))
	}
	return nil
}

func (k *Kernel) authenticate(context.Context) error {
	a := &oda.Authenticator{Keys: k.keys, Policy: k.policy, Logger: k.logger}

	m, err := a.Authenticate(k.store, oda.TransactionData{PDOL: k.pdolData, CDOL1: k.cdol1Data})
	if err != nil {
		return k.fail(ErrAuthenticationUnsupported, err)
	}
	k.logger.Debug("offline data authentication", "method", m.String(), "tvr", fmt.Sprintf("%X", k.store.TVR().Bytes()))
	return nil
}
