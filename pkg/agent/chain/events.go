package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type transferLog struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
}

// mintedTokenId finds the Transfer from the zero address emitted by the contract in a receipt.
func mintedTokenId(contractAbi *abi.ABI, contract common.Address, receipt *types.Receipt) (*big.Int, bool) {
	for _, log := range receipt.Logs {
		if log == nil || log.Address != contract {
			continue
		}

		var out transferLog
		if err := unpackEvent(contractAbi, &out, transferEvent, *log); err != nil {
			continue
		}

		if out.From == (common.Address{}) {
			return out.TokenId, true
		}
	}

	return nil, false
}

func unpackEvent(contractAbi *abi.ABI, out interface{}, event string, log types.Log) error {
	if len(log.Topics) == 0 {
		return fmt.Errorf("no event signature")
	}
	if log.Topics[0] != contractAbi.Events[event].ID {
		return fmt.Errorf("event signature mismatch")
	}
	if len(log.Data) > 0 {
		if err := contractAbi.UnpackIntoInterface(out, event, log.Data); err != nil {
			return fmt.Errorf("failed to unpack event: %v", err)
		}
	}
	var indexed abi.Arguments
	for _, arg := range contractAbi.Events[event].Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return abi.ParseTopics(out, indexed, log.Topics[1:])
}
