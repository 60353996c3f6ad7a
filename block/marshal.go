package block

import (
	"encoding/json"
	"math/big"

	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/tx"
)

type blockJSON struct {
	Height       Height          `json:"height"`
	Transactions tx.Transactions `json:"transactions"`
	ParentHash   digest.Hash     `json:"parentHash"`
	Timestamp    Timestamp       `json:"timestamp"`
	Target       *big.Int        `json:"target"`
	IsGenesis    bool            `json:"isGenesis"`
	Merkle       digest.Hash     `json:"merkle"`
	SealData     []byte          `json:"sealData"`
	Hash         digest.Hash     `json:"hash"`
}

// MarshalJSON is implemented because it is not uncommon that blocks need to be
// made available through external APIs. The Sealer is not marshaled.
func (block Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockJSON{
		Height:       block.Height,
		Transactions: block.Transactions,
		ParentHash:   block.ParentHash,
		Timestamp:    block.Timestamp,
		Target:       block.Target,
		IsGenesis:    block.IsGenesis,
		Merkle:       block.Merkle,
		SealData:     block.SealData,
		Hash:         block.Hash,
	})
}

// UnmarshalJSON is implemented because it is not uncommon that blocks need to
// be made available through external APIs. The Hash is taken as given, not
// recomputed, and a Sealer must be attached using WithSealer before the Block
// can be validated.
func (block *Block) UnmarshalJSON(data []byte) error {
	tmp := blockJSON{}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	block.Height = tmp.Height
	block.Transactions = tmp.Transactions
	block.ParentHash = tmp.ParentHash
	block.Timestamp = tmp.Timestamp
	block.Target = tmp.Target
	block.IsGenesis = tmp.IsGenesis
	block.Merkle = tmp.Merkle
	block.SealData = tmp.SealData
	block.Hash = tmp.Hash
	return nil
}
