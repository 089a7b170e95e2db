package gov

import (
	"encoding/binary"
	"encoding/json"

	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

func (ctrler *GovCtrler) Query(req ctrlertypes.QueryData) (json.RawMessage, xerrors.XError) {
	switch req.Command {
	case ctrlertypes.QUERY_PROPOSAL:
		if len(req.Params) != 4 {
			return nil, xerrors.ErrInvalidQueryParams
		}
		idx := binary.BigEndian.Uint32(req.Params)

		prop, xerr := ctrler.ReadProposal(idx)
		if xerr != nil {
			return nil, xerr
		}
		raw, err := json.Marshal(prop)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return raw, nil

	case ctrlertypes.QUERY_PROPOSALS:
		proposals, xerr := ctrler.ReadAllProposals()
		if xerr != nil {
			return nil, xerr
		}
		raw, err := json.Marshal(proposals)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return raw, nil

	case ctrlertypes.QUERY_PARAMS:
		ctrler.mtx.RLock()
		params := ctrler.VotingParams
		ctrler.mtx.RUnlock()

		raw, err := json.Marshal(params)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return raw, nil

	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}

var _ ctrlertypes.IQueryHandler = (*GovCtrler)(nil)
