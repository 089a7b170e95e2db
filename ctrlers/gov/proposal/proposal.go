package proposal

import (
	"encoding/json"
	"sync"

	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/ledger"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

const (
	PROPOSAL_CREATED int32 = 1 + iota
	PROPOSAL_STARTED
)

const (
	CHOICE_AYE int32 = 1 + iota
	CHOICE_NAY
	CHOICE_ABSTAIN
)

func IsValidChoice(choice int32) bool {
	return choice == CHOICE_AYE || choice == CHOICE_NAY || choice == CHOICE_ABSTAIN
}

func ChoiceString(choice int32) string {
	switch choice {
	case CHOICE_AYE:
		return "aye"
	case CHOICE_NAY:
		return "nay"
	case CHOICE_ABSTAIN:
		return "abstain"
	}
	return "unknown"
}

// Ballot records one cast vote. Only aye ballots contribute weight
// to the tally; nay and abstain ballots are kept for auditability.
type Ballot struct {
	Voter  types.Address `json:"voter"`
	Choice int32         `json:"choice"`
	Weight *uint256.Int  `json:"weight"`
}

type Proposal struct {
	Index       uint32         `json:"index"`
	ContentHash bytes.HexBytes `json:"contentHash"`
	Creator     types.Address  `json:"creator"`
	Status      int32          `json:"status"`
	StartHeight int64          `json:"startHeight"`
	EndHeight   int64          `json:"endHeight"`
	AyeWeight   *uint256.Int   `json:"ayeWeight"`
	Ballots     []*Ballot      `json:"ballots"`

	mtx sync.RWMutex
}

func NewProposal(idx uint32, contentHash bytes.HexBytes, creator types.Address) *Proposal {
	return &Proposal{
		Index:       idx,
		ContentHash: contentHash,
		Creator:     creator,
		Status:      PROPOSAL_CREATED,
		AyeWeight:   uint256.NewInt(0),
	}
}

// Start opens the voting window. The end height is fixed now;
// it does not move when later votes arrive.
func (prop *Proposal) Start(height, votingBlocks int64) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Status != PROPOSAL_CREATED {
		return xerrors.ErrProposalAlreadyStarted
	}

	prop.Status = PROPOSAL_STARTED
	prop.StartHeight = height
	prop.EndHeight = height + votingBlocks
	return nil
}

func (prop *Proposal) IsStarted() bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Status == PROPOSAL_STARTED
}

// IsOpen reports whether a vote at `height` lands inside the window.
// The end height itself is still open.
func (prop *Proposal) IsOpen(height int64) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Status == PROPOSAL_STARTED && height <= prop.EndHeight
}

// IsClosed reports whether the voting window has passed.
// A proposal that never started is not closed, it is pending.
func (prop *Proposal) IsClosed(height int64) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Status == PROPOSAL_STARTED && height > prop.EndHeight
}

// DoVote appends a ballot. Only an aye ballot moves the tally.
func (prop *Proposal) DoVote(voter types.Address, choice int32, weight *uint256.Int) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	prop.Ballots = append(prop.Ballots, &Ballot{
		Voter:  voter,
		Choice: choice,
		Weight: weight.Clone(),
	})

	if choice == CHOICE_AYE {
		if _, overflow := prop.AyeWeight.AddOverflow(prop.AyeWeight, weight); overflow {
			return xerrors.ErrInvalidTrxPayloadParams
		}
	}
	return nil
}

func (prop *Proposal) GetAyeWeight() *uint256.Int {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.AyeWeight.Clone()
}

func (prop *Proposal) Key() ledger.LedgerKey {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return ledger.ToLedgerKeyOfIndex(prop.Index)
}

func (prop *Proposal) Encode() ([]byte, xerrors.XError) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if bz, err := json.Marshal(prop); err != nil {
		return bz, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (prop *Proposal) Decode(bz []byte) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if err := json.Unmarshal(bz, prop); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Proposal)(nil)
