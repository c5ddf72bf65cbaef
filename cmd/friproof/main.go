// Command friproof drives the FRI prover and verifier end to end: it
// reads an evaluation vector plus folding parameters as a single JSON
// line on stdin, produces a proof, verifies it, and reports pass/fail.
// With no stdin input it runs a canonical demo scenario instead (a
// values-repeated-4x construction over a small power-of-two domain).
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/vybium/goldilocks-fri/internal/field"
	"github.com/vybium/goldilocks-fri/internal/fri"
	"github.com/vybium/goldilocks-fri/internal/merkle"
)

type request struct {
	Values            []string `json:"values"`
	MaxDegPlus1       uint64   `json:"maxdeg_plus_1"`
	AvoidMultiples    uint64   `json:"avoid_multiples"`
	VerifyMaxDegPlus1 *uint64  `json:"verify_maxdeg_plus_1,omitempty"`
}

type wireComponent struct {
	Terminal         bool         `json:"terminal"`
	Root             string       `json:"root,omitempty"`
	ColumnBranches   [][]string   `json:"column_branches,omitempty"`
	PreimageBranches [][][]string `json:"preimage_branches,omitempty"`
	Values           []string     `json:"values,omitempty"`
}

type wireProof struct {
	Components []wireComponent `json:"components"`
}

type response struct {
	InitialRoot string    `json:"initial_root"`
	Rounds      int       `json:"rounds"`
	Proof       wireProof `json:"proof"`
	Verified    bool      `json:"verified"`
}

func main() {
	demo := flag.Bool("demo", false, "run the canonical demo scenario instead of reading stdin")
	flag.Parse()

	if *demo || !stdinHasData() {
		runDemo()
		return
	}

	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fatal(fmt.Sprintf("parsing request: %v", err))
	}

	values, err := decodeValues(req.Values)
	if err != nil {
		fatal(err.Error())
	}

	resp, err := proveAndVerify(values, req.MaxDegPlus1, req.AvoidMultiples, req.VerifyMaxDegPlus1)
	if err != nil {
		fatal(err.Error())
	}

	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		fatal(fmt.Sprintf("encoding response: %v", err))
	}
}

func runDemo() {
	values := make([]field.Element, 0, 32)
	for rep := 0; rep < 4; rep++ {
		for v := uint64(1); v <= 8; v++ {
			values = append(values, field.New(v))
		}
	}

	logStderr("Began proving")
	resp, err := proveAndVerify(values, 32, 7, uint64Ptr(12))
	if err != nil {
		fatal(err.Error())
	}

	logStderr(fmt.Sprintf("proof rounds: %d", resp.Rounds))
	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		fatal(fmt.Sprintf("encoding response: %v", err))
	}
	if !resp.Verified {
		fatal("demo proof failed verification")
	}
}

func proveAndVerify(values []field.Element, maxDegPlus1, avoidMultiples uint64, verifyMaxDegPlus1 *uint64) (*response, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty value vector")
	}

	omega := field.NthRootOfUnity(uint64(len(values)))

	initialRoot, err := merkle.Merkelize(merkle.SHA256, encodeLeaves(values))
	if err != nil {
		return nil, fmt.Errorf("merkelizing input: %w", err)
	}

	logStderr(fmt.Sprintf("maxdeg_plus_1: %d", maxDegPlus1))
	logStderr(fmt.Sprintf("values len: %d", len(values)))

	proof, err := fri.Prove(values, omega, maxDegPlus1, avoidMultiples)
	if err != nil {
		return nil, fmt.Errorf("proving: %w", err)
	}

	verifyAt := maxDegPlus1
	if verifyMaxDegPlus1 != nil {
		verifyAt = *verifyMaxDegPlus1
	}

	ok, err := fri.Verify(initialRoot, omega, proof, verifyAt, avoidMultiples)
	if err != nil {
		return nil, fmt.Errorf("verifying: %w", err)
	}

	return &response{
		InitialRoot: hex.EncodeToString(initialRoot),
		Rounds:      len(proof.Components),
		Proof:       toWire(proof),
		Verified:    ok,
	}, nil
}

func decodeValues(raw []string) ([]field.Element, error) {
	values := make([]field.Element, len(raw))
	for i, s := range raw {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value %d (%q): %w", i, s, err)
		}
		values[i] = field.New(n)
	}
	return values, nil
}

func encodeLeaves(values []field.Element) [][]byte {
	leaves := make([][]byte, len(values))
	for i, v := range values {
		b := v.Bytes()
		leaves[i] = b[:]
	}
	return leaves
}

func toWire(proof *fri.Proof) wireProof {
	w := wireProof{Components: make([]wireComponent, len(proof.Components))}
	for i, c := range proof.Components {
		wc := wireComponent{Terminal: c.Terminal}
		if c.Terminal {
			wc.Values = make([]string, len(c.Values))
			for j, v := range c.Values {
				wc.Values[j] = v.String()
			}
			w.Components[i] = wc
			continue
		}

		wc.Root = hex.EncodeToString(c.Root)
		wc.ColumnBranches = make([][]string, len(c.ColumnBranches))
		for j, branch := range c.ColumnBranches {
			wc.ColumnBranches[j] = hexBranch(branch)
		}
		wc.PreimageBranches = make([][][]string, len(c.PreimageBranches))
		for j, quad := range c.PreimageBranches {
			group := make([][]string, 4)
			for k, branch := range quad {
				group[k] = hexBranch(branch)
			}
			wc.PreimageBranches[j] = group
		}
		w.Components[i] = wc
	}
	return w
}

func hexBranch(branch [][]byte) []string {
	out := make([]string, len(branch))
	for i, b := range branch {
		out[i] = hex.EncodeToString(b)
	}
	return out
}

func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func uint64Ptr(v uint64) *uint64 { return &v }

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func fatal(msg string) {
	logStderr("fatal: " + msg)
	os.Exit(1)
}
