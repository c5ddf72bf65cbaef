package fri

import (
	"fmt"

	"github.com/vybium/goldilocks-fri/internal/field"
	"github.com/vybium/goldilocks-fri/internal/merkle"
	"github.com/vybium/goldilocks-fri/internal/poly"
)

// Verify checks proof against initialRoot (the Merkle root of the
// original evaluation vector), rootOfUnity (the order-N root of unity the
// vector was indexed by), the claimed degree bound maxDegPlus1, and the
// same excludeMultiplesOf used by the prover.
//
// Verify never panics on adversarial input: a malformed branch, an
// inconsistent query count, or a failed degree check all report (false,
// nil) — the expected shape of a rejected proof. The error return is
// reserved for proof values that are not even well-formed enough to
// evaluate, such as a nil proof or an empty component list.
func Verify(initialRoot []byte, rootOfUnity field.Element, proof *Proof, maxDegPlus1 uint64, excludeMultiplesOf uint64) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("%w: nil proof", ErrProofInvalid)
	}
	if len(proof.Components) == 0 {
		return false, fmt.Errorf("%w: proof has no components", ErrProofInvalid)
	}

	degRoot := field.MultiplicativeOrder(rootOfUnity)
	rPrev := append([]byte(nil), initialRoot...)
	currentRoot := rootOfUnity
	currentMaxDeg := maxDegPlus1

	for _, comp := range proof.Components {
		if comp.Terminal {
			return verifyTerminal(rPrev, currentRoot, comp.Values, currentMaxDeg)
		}

		if degRoot%4 != 0 {
			return false, nil
		}
		quarter := degRoot / 4
		zetas := fourthRootsOfUnity(currentRoot, degRoot)

		ch := newChannelFromRoot(rPrev)
		special := ch.ReceiveChallenge()

		ys, err := newChannelFromRoot(comp.Root).ReceiveIndices(quarter, QueryCount, excludeMultiplesOf)
		if err != nil {
			return false, nil
		}
		if len(ys) != len(comp.ColumnBranches) || len(ys) != len(comp.PreimageBranches) {
			return false, nil
		}

		for i, y := range ys {
			var preimageValues [4]field.Element
			for j := 0; j < 4; j++ {
				pos := int(y) + j*int(quarter)
				branch := comp.PreimageBranches[i][j]
				if !merkle.VerifyBranch(merkle.SHA256, rPrev, pos, branch) {
					return false, nil
				}
				leaf := merkle.LeafValue(branch)
				if len(leaf) < 8 {
					return false, nil
				}
				preimageValues[j] = field.FromBytes(leaf[:8])
			}

			columnBranch := comp.ColumnBranches[i]
			if !merkle.VerifyBranch(merkle.SHA256, comp.Root, int(y), columnBranch) {
				return false, nil
			}
			columnLeaf := merkle.LeafValue(columnBranch)
			if len(columnLeaf) < 8 {
				return false, nil
			}
			columnValue := field.FromBytes(columnLeaf[:8])

			xy := currentRoot.Pow(y)
			xsRow := [4]field.Element{
				xy.Mul(zetas[0]),
				xy.Mul(zetas[1]),
				xy.Mul(zetas[2]),
				xy.Mul(zetas[3]),
			}
			rowPoly, err := poly.LagrangeInterpolate(xsRow[:], preimageValues[:])
			if err != nil {
				return false, nil
			}
			if !rowPoly.Eval(special).Equal(columnValue) {
				return false, nil
			}
		}

		rPrev = append([]byte(nil), comp.Root...)
		currentRoot = currentRoot.Pow(4)
		degRoot = quarter
		currentMaxDeg = currentMaxDeg / 4
	}

	// Every component was non-terminal: the proof never emitted the
	// required terminal codeword.
	return false, nil
}

func verifyTerminal(rPrev []byte, rootOfUnity field.Element, values []field.Element, maxDegPlus1 uint64) (bool, error) {
	if maxDegPlus1 > FoldStopThreshold {
		return false, nil
	}
	if len(values) == 0 || !isPowerOfTwo(len(values)) {
		return false, nil
	}
	if uint64(len(values)) < maxDegPlus1 {
		return false, nil
	}

	root, err := merkle.Merkelize(merkle.SHA256, encodeLeaves(values))
	if err != nil {
		return false, nil
	}
	if string(root) != string(rPrev) {
		return false, nil
	}

	xs := field.PowerSequence(rootOfUnity, len(values))

	shortPoly, err := poly.LagrangeInterpolate(xs[:maxDegPlus1], values[:maxDegPlus1])
	if err != nil {
		return false, nil
	}
	fullPoly, err := poly.LagrangeInterpolate(xs, values)
	if err != nil {
		return false, nil
	}

	for _, x := range xs {
		if !fullPoly.Eval(x).Equal(shortPoly.Eval(x)) {
			return false, nil
		}
	}

	return true, nil
}
