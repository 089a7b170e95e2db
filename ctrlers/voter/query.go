package voter

import (
	"encoding/json"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

func (ctrler *VoterCtrler) Query(qd ctrlertypes.QueryData) (json.RawMessage, xerrors.XError) {
	switch qd.Command {
	case ctrlertypes.QUERY_VOTER:
		if len(qd.Params) != types.AddrSize {
			return nil, xerrors.ErrInvalidQueryParams
		}
		vtr, xerr := ctrler.ReadVoter(qd.Params)
		if xerr != nil {
			return nil, xerr
		}
		if bz, err := json.Marshal(vtr); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return bz, nil
		}
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}
