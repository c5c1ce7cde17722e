package client

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ERC-1155 + thirdweb Edition ABI: the reads and the event the token pages need.
const collectionABI = `[
{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"uri","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[{"name":"id","type":"uint256"}],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"nextTokenIdToMint","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"contractURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"anonymous":false,"inputs":[{"indexed":true,"name":"operator","type":"address"},{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"id","type":"uint256"},{"indexed":false,"name":"value","type":"uint256"}],"name":"TransferSingle","type":"event"}
]`

const (
	methodURI               = "uri"
	methodTotalSupply       = "totalSupply"
	methodNextTokenIDToMint = "nextTokenIdToMint"
	methodContractURI       = "contractURI"
	eventTransferSingle     = "TransferSingle"
)

var (
	parsedCollectionABI  abi.ABI
	parsedCollectionOnce sync.Once
)

func initParsedCollectionABI() abi.ABI {
	parsedCollectionOnce.Do(func() {
		var err error
		parsedCollectionABI, err = abi.JSON(strings.NewReader(collectionABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse collection ABI: %v", err))
		}
		if _, ok := parsedCollectionABI.Events[eventTransferSingle]; !ok {
			panic("TransferSingle event not found in parsed collection ABI")
		}
	})
	return parsedCollectionABI
}
