package proposal

import (
	"github.com/quadrachain/quadra-go/types/xerrors"
)

// Winner picks, among proposals whose voting window has passed, the one
// with the strictly greatest aye weight. Ties go to the lowest index.
func Winner(proposals []*Proposal, height int64) (*Proposal, xerrors.XError) {
	var winner *Proposal
	for _, prop := range proposals {
		if !prop.IsClosed(height) {
			continue
		}
		if winner == nil {
			winner = prop
			continue
		}

		cmp := prop.GetAyeWeight().Cmp(winner.GetAyeWeight())
		if cmp > 0 || (cmp == 0 && prop.Index < winner.Index) {
			winner = prop
		}
	}

	if winner == nil {
		return nil, xerrors.ErrNoClosedProposals
	}
	return winner, nil
}
