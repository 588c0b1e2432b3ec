package prover

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zachyo/compliant-asset-vault/types"
)

// Calldata is the JSON artifact handed to contract tooling: the proof and
// public input vector as hex scalars in verifier-call order.
type Calldata struct {
	A     [2]string    `json:"a"`
	B     [2][2]string `json:"b"`
	C     [2]string    `json:"c"`
	Input [1]string    `json:"input"`
}

func ExportCalldata(p *types.Proof) *Calldata {
	cd := &Calldata{}
	cd.A[0] = fmt.Sprintf("0x%x", p.A[0])
	cd.A[1] = fmt.Sprintf("0x%x", p.A[1])
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			cd.B[i][j] = fmt.Sprintf("0x%x", p.B[i][j])
		}
	}
	cd.C[0] = fmt.Sprintf("0x%x", p.C[0])
	cd.C[1] = fmt.Sprintf("0x%x", p.C[1])
	cd.Input[0] = fmt.Sprintf("0x%x", p.Input[0])
	return cd
}

// WriteCalldataFile writes the calldata artifact for consumption by the
// frontend tooling.
func WriteCalldataFile(p *types.Proof, path string) error {
	bz, err := json.MarshalIndent(ExportCalldata(p), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0644)
}
