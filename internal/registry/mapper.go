package registry

// cancelEntry is the common view the cancellation mapper needs over 갑구
// and 을구 entries.
type cancelEntry interface {
	rank() string
	regType() string
	receipt() string
	cause() string
	cancel() *Cancellation
}

func (e *SectionAEntry) rank() string          { return e.RankNumber }
func (e *SectionAEntry) regType() string       { return e.RegistrationType }
func (e *SectionAEntry) receipt() string       { return e.ReceiptDate }
func (e *SectionAEntry) cause() string         { return e.RegistrationCause }
func (e *SectionAEntry) cancel() *Cancellation { return &e.Cancellation }

func (e *SectionBEntry) rank() string          { return e.RankNumber }
func (e *SectionBEntry) regType() string       { return e.RegistrationType }
func (e *SectionBEntry) receipt() string       { return e.ReceiptDate }
func (e *SectionBEntry) cause() string         { return e.RegistrationCause }
func (e *SectionBEntry) cancel() *Cancellation { return &e.Cancellation }

// applyTextCancellations backfills CancelsRank from the entry text when the
// red-strike detector saw nothing. A "X번...말소" registration cancels rank X;
// so does an entry whose cause alone implies cancellation (해지, 해제, ...).
func applyTextCancellations(entries []cancelEntry) {
	for _, e := range entries {
		c := e.cancel()
		if c.CancelsRank != nil {
			continue
		}
		if r := extractCancelsRank(e.regType()); r != nil {
			c.CancelsRank = r
			continue
		}
		if cancellationCauses[e.cause()] {
			if m := cancelTargetRe.FindStringSubmatch(e.regType()); m != nil {
				c.CancelsRank = &m[1]
			}
		}
	}
}

// mapCancellations links each cancelling entry to its target: the target is
// marked cancelled and records who cancelled it, when, and why. Running it
// again is a no-op because the map rebuilds from CancelsRank alone.
func mapCancellations(entries []cancelEntry) {
	type cancelInfo struct {
		byRank string
		date   string
		cause  string
	}
	cancelMap := map[string]cancelInfo{}

	for _, e := range entries {
		c := e.cancel()
		if c.CancelsRank == nil {
			continue
		}
		cause := e.cause()
		if cause == "" && c.CancellationCause != nil {
			cause = *c.CancellationCause
		}
		cancelMap[*c.CancelsRank] = cancelInfo{byRank: e.rank(), date: e.receipt(), cause: cause}
	}

	for _, e := range entries {
		info, ok := cancelMap[e.rank()]
		if !ok {
			continue
		}
		c := e.cancel()
		c.IsCancelled = true
		c.CancelledByRank = strPtr(info.byRank)
		c.CancellationDate = strPtrOrNil(info.date)
		c.CancellationCause = strPtrOrNil(info.cause)
	}
}

func sectionAAsCancelEntries(entries []SectionAEntry) []cancelEntry {
	out := make([]cancelEntry, len(entries))
	for i := range entries {
		out[i] = &entries[i]
	}
	return out
}

func sectionBAsCancelEntries(entries []SectionBEntry) []cancelEntry {
	out := make([]cancelEntry, len(entries))
	for i := range entries {
		out[i] = &entries[i]
	}
	return out
}
