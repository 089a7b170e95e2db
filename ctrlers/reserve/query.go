package reserve

import (
	"encoding/json"

	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

func (ctrler *ReserveCtrler) Query(req ctrlertypes.QueryData) (json.RawMessage, xerrors.XError) {
	switch req.Command {
	case ctrlertypes.QUERY_RESERVATION:
		if len(req.Params) != types.AddrSize {
			return nil, xerrors.ErrInvalidQueryParams
		}
		addr := types.Address(req.Params)

		ctrler.mtx.RLock()
		rsv, _ := ctrler.rsvLedger.Read(addr.Array32())
		ctrler.mtx.RUnlock()

		if rsv == nil {
			rsv = NewReservation(addr)
		}
		raw, err := json.Marshal(rsv)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return raw, nil
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}

var _ ctrlertypes.IQueryHandler = (*ReserveCtrler)(nil)
