package xerrors

import (
	"errors"
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeGeneric
	ErrCodeInitChain
	ErrCodeBeginBlock
	ErrCodeCommit
	ErrCodeInvalidTrx
	ErrCodeNotRegisteredVoter
	ErrCodeAlreadyRegistered
	ErrCodeInsufficientFee
	ErrCodeFeeExceedsInitialBalance
	ErrCodeNotFoundProposal
	ErrCodeProposalAlreadyStarted
	ErrCodeProposalNotStarted
	ErrCodeProposalClosed
	ErrCodeNotEnoughBalance
	ErrCodeNotEnoughReservedTokens
	ErrCodeNoClosedProposals
	ErrCodeNoRight
	ErrCodeNotFoundResult
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryCmd
	ErrCodeInvalidQueryParams
	ErrLast
)

var (
	ErrInitChain  = NewWith(ErrCodeInitChain, "InitChain failed")
	ErrBeginBlock = NewWith(ErrCodeBeginBlock, "BeginBlock failed")
	ErrCommit     = NewWith(ErrCodeCommit, "Commit failed")
	ErrQuery      = NewWith(ErrCodeQuery, "query failed")

	ErrInvalidTrx              = NewWith(ErrCodeInvalidTrx, "invalid transaction")
	ErrUnknownTrxType          = ErrInvalidTrx.Wrap(errors.New("unknown transaction type"))
	ErrInvalidTrxPayloadType   = ErrInvalidTrx.Wrap(errors.New("wrong transaction payload type"))
	ErrInvalidTrxPayloadParams = ErrInvalidTrx.Wrap(errors.New("wrong transaction payload parameters"))

	ErrNotRegisteredVoter       = NewWith(ErrCodeNotRegisteredVoter, "not registered voter")
	ErrAlreadyRegistered        = NewWith(ErrCodeAlreadyRegistered, "voter is already registered")
	ErrInsufficientFee          = NewWith(ErrCodeInsufficientFee, "insufficient fee")
	ErrFeeExceedsInitialBalance = NewWith(ErrCodeFeeExceedsInitialBalance, "fee exceeds initial balance")
	ErrNotFoundProposal         = NewWith(ErrCodeNotFoundProposal, "not found proposal")
	ErrProposalAlreadyStarted   = NewWith(ErrCodeProposalAlreadyStarted, "proposal is already started")
	ErrProposalNotStarted       = NewWith(ErrCodeProposalNotStarted, "proposal is not started")
	ErrProposalClosed           = NewWith(ErrCodeProposalClosed, "proposal voting window is closed")
	ErrNotEnoughBalance         = NewWith(ErrCodeNotEnoughBalance, "not enough balance")
	ErrNotEnoughReservedTokens  = NewWith(ErrCodeNotEnoughReservedTokens, "not enough reserved tokens")
	ErrNoClosedProposals        = NewWith(ErrCodeNoClosedProposals, "no closed proposals")
	ErrNoRight                  = NewWith(ErrCodeNoRight, "no right")

	ErrNotFoundResult = NewWith(ErrCodeNotFoundResult, "not found result")

	ErrInvalidQueryCmd    = NewWith(ErrCodeInvalidQueryCmd, "invalid query command")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	With(error) XError
	Wrap(error) XError
	Wrapf(format string, args ...interface{}) XError
	Unwrap() error
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func New(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewOrdinary(m string) XError {
	return New(m)
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(XError); ok {
		return xe
	}
	return &xerr{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

func (e *xerr) With(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...interface{}) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: fmt.Errorf(format, args...),
	}
}
