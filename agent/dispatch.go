package agent

import (
	"errors"

	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/framer"
	"github.com/lsnmpvs/lsnmpvs/mib"
)

// handle implements requestHandler: unframe, decode, dispatch to the MIB,
// encode and reply. It never returns an error — a datagram that fails to
// unframe or whose PDU fails to decode (including tag corruption) is
// dropped without a reply; every other failure is an E-list entry in the
// reply.
func (a *Agent) handle(d datagram) {
	plain, err := framer.Open(a.key, d.data)
	if err != nil {
		a.metrics.observeError(codec.ErrDecode)
		a.m.SetStatus(mib.StatusError)
		a.logger.Warn("agent: frame open failed, dropping datagram", "addr", d.addr, "error", err.Error())
		return
	}

	pdu, err := codec.DecodePDU(plain, false)
	if err != nil {
		var decodeErr *codec.DecodeError
		if errors.As(err, &decodeErr) && decodeErr.Code == codec.ErrTag {
			// A bad tag is a fatal, silent drop — no reply, no MIB
			// mutation, just the error-code-2 counter.
			a.metrics.observeError(codec.ErrTag)
			a.logger.Warn("agent: tag error, dropping datagram", "addr", d.addr)
			return
		}
		a.metrics.observeError(codec.ErrDecode)
		a.m.SetStatus(mib.StatusError)
		a.logger.Warn("agent: decode failed, dropping datagram", "addr", d.addr, "error", err.Error())
		return
	}

	if pdu.Type != codec.MsgGetRequest && pdu.Type != codec.MsgSetRequest {
		a.replyUnknownType(d, pdu)
		return
	}

	if a.dedup.CheckAndMark(d.addr.String(), pdu.MsgID) {
		a.metrics.observeError(codec.ErrDuplicateMessage)
		a.reply(d, pdu, nil, nil, []codec.ErrorCode{codec.ErrDuplicateMessage})
		return
	}

	var values []codec.Value
	var errs []codec.ErrorCode
	switch pdu.Type {
	case codec.MsgGetRequest:
		values, errs = a.m.Get(pdu.IIDList)
	case codec.MsgSetRequest:
		if len(pdu.VList) != len(pdu.IIDList) {
			a.metrics.observeError(codec.ErrListLengthMismatch)
			a.reply(d, pdu, pdu.IIDList, nil, repeatError(codec.ErrListLengthMismatch, len(pdu.IIDList)))
			return
		}
		values, errs = a.m.Set(pdu.IIDList, pdu.VList)
	}
	for _, e := range errs {
		a.metrics.observeError(e)
	}
	a.reply(d, pdu, pdu.IIDList, values, errs)
}

func (a *Agent) replyUnknownType(d datagram, pdu codec.PDU) {
	a.metrics.observeError(codec.ErrUnknownType)
	a.reply(d, pdu, nil, nil, []codec.ErrorCode{codec.ErrUnknownType})
}

func (a *Agent) reply(d datagram, req codec.PDU, iids []codec.IID, values []codec.Value, errs []codec.ErrorCode) {
	resp := codec.PDU{
		Type:      codec.MsgResponse,
		Timestamp: mib.Now(),
		MsgID:     req.MsgID,
		IIDList:   iids,
		VList:     values,
		EList:     errs,
	}
	plain, err := codec.EncodePDU(resp)
	if err != nil {
		a.logger.Error("agent: encode response failed", "addr", d.addr, "error", err.Error())
		return
	}
	sealed, err := framer.Seal(a.key, plain)
	if err != nil {
		a.logger.Error("agent: seal response failed", "addr", d.addr, "error", err.Error())
		return
	}
	if _, err := a.conn.WriteToUDP(sealed, d.addr); err != nil {
		a.logger.Warn("agent: response send failed", "addr", d.addr, "error", err.Error())
		return
	}
	a.metrics.responsesTotal.Inc()
}

func repeatError(code codec.ErrorCode, n int) []codec.ErrorCode {
	out := make([]codec.ErrorCode, n)
	for i := range out {
		out[i] = code
	}
	return out
}
