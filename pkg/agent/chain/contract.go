package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// MintableCollectionAbi is the subset of the collection contract used by the minter.
const MintableCollectionAbi = `[
	{
		"inputs": [{"internalType": "string", "name": "tokenURI", "type": "string"}],
		"name": "mint",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "address", "name": "from", "type": "address"},
			{"indexed": true, "internalType": "address", "name": "to", "type": "address"},
			{"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"}
		],
		"name": "Transfer",
		"type": "event"
	}
]`

const (
	mintMethod    = "mint"
	transferEvent = "Transfer"
)

func parseCollectionAbi() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(MintableCollectionAbi))
}
