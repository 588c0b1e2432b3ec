// proofgen prepares verifier calldata for a compliance check: it derives the
// identity commitment from a private secret, runs the Groth16 prover and
// writes the 8-scalar artifact consumed by the frontend.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/zachyo/compliant-asset-vault/circuit"
	"github.com/zachyo/compliant-asset-vault/prover"
	"github.com/zachyo/compliant-asset-vault/types"
)

func main() {
	var secretArg string
	var out string
	flag.StringVar(&secretArg, "secret", "", "identity secret as an integer (0x-prefixed for hex); random when empty")
	flag.StringVar(&out, "out", "solidity_proof.json", "output path for the calldata artifact")
	flag.Parse()

	secret := new(big.Int)
	if secretArg == "" {
		secret.SetBytes(types.RandBytes(31))
	} else if _, ok := secret.SetString(secretArg, 0); !ok {
		fmt.Fprintf(os.Stderr, "invalid secret: %q\n", secretArg)
		os.Exit(1)
	}

	ccs, pk, _, err := circuit.Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "circuit compile failed: %v\n", err)
		os.Exit(1)
	}

	proof, err := prover.ProveIdentity(secret, pk, ccs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "proving failed: %v\n", err)
		os.Exit(1)
	}

	if err := prover.WriteCalldataFile(proof, out); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("commitment: %s\n", proof.Input[0].String())
	fmt.Printf("calldata written to %s\n", out)
}
