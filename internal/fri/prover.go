package fri

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/vybium/goldilocks-fri/internal/field"
	"github.com/vybium/goldilocks-fri/internal/merkle"
	"github.com/vybium/goldilocks-fri/internal/poly"
)

// Prove runs the recursive FRI folding protocol over values (an
// evaluation vector of power-of-two length N over the power cycle of
// rootOfUnity), producing a Proof that the committed vector is close to a
// polynomial of degree below maxDegPlus1. avoidMultiples, if nonzero, is
// threaded through to every round's query-index sampling to keep sampled
// positions off a structurally special subset (see package prand).
func Prove(values []field.Element, rootOfUnity field.Element, maxDegPlus1 uint64, avoidMultiples uint64) (*Proof, error) {
	if len(values) == 0 || !isPowerOfTwo(len(values)) {
		return nil, fmt.Errorf("%w: value vector length %d is not a positive power of two", ErrInvalidInput, len(values))
	}
	if maxDegPlus1 == 0 {
		return nil, fmt.Errorf("%w: maxdeg_plus_1 must be positive", ErrInvalidInput)
	}

	var components []Component
	if err := proveRound(values, rootOfUnity, maxDegPlus1, avoidMultiples, &components); err != nil {
		return nil, err
	}
	return &Proof{Components: components}, nil
}

func proveRound(values []field.Element, rootOfUnity field.Element, maxDegPlus1 uint64, avoidMultiples uint64, out *[]Component) error {
	if maxDegPlus1 <= FoldStopThreshold {
		*out = append(*out, Component{
			Terminal: true,
			Values:   append([]field.Element(nil), values...),
		})
		return nil
	}

	n := len(values)
	if !isPowerOfTwo(n) {
		return fmt.Errorf("%w: folded vector length %d is not a power of two", ErrInvalidInput, n)
	}
	if n%4 != 0 {
		return fmt.Errorf("%w: folded vector length %d is not divisible by 4", ErrInvalidInput, n)
	}

	tree, err := merkle.New(merkle.SHA256, encodeLeaves(values))
	if err != nil {
		return fmt.Errorf("fri: merkelizing round values: %w", err)
	}

	xs := field.PowerSequence(rootOfUnity, n)
	q := n / 4

	rowPolys, err := buildRowPolynomials(xs, values, q)
	if err != nil {
		return err
	}

	ch := newChannelFromRoot(tree.Root())
	special := ch.ReceiveChallenge()

	column := make([]field.Element, q)
	for i, p := range rowPolys {
		column[i] = p.Eval(special)
	}

	columnTree, err := merkle.New(merkle.SHA256, encodeLeaves(column))
	if err != nil {
		return fmt.Errorf("fri: merkelizing folded column: %w", err)
	}
	columnRoot := columnTree.Root()

	ys, err := newChannelFromRoot(columnRoot).ReceiveIndices(uint64(q), QueryCount, avoidMultiples)
	if err != nil {
		return fmt.Errorf("fri: deriving query indices: %w", err)
	}

	columnBranches := make([][][]byte, len(ys))
	preimageBranches := make([][4][][]byte, len(ys))
	for i, y := range ys {
		cb, err := columnTree.Branch(int(y))
		if err != nil {
			return fmt.Errorf("fri: column branch at index %d: %w", y, err)
		}
		columnBranches[i] = cb

		var pre [4][][]byte
		for j := 0; j < 4; j++ {
			pos := int(y) + j*q
			b, err := tree.Branch(pos)
			if err != nil {
				return fmt.Errorf("fri: pre-image branch at index %d: %w", pos, err)
			}
			pre[j] = b
		}
		preimageBranches[i] = pre
	}

	*out = append(*out, Component{
		Root:             columnRoot,
		ColumnBranches:   columnBranches,
		PreimageBranches: preimageBranches,
	})

	return proveRound(column, rootOfUnity.Pow(4), maxDegPlus1/4, avoidMultiples, out)
}

// buildRowPolynomials constructs the q 4-point Lagrange interpolants that
// fold values into a column. The rows are independent, so the work is
// spread across a bounded worker pool sized to runtime.NumCPU(); running
// it single-threaded would compute byte-identical results.
func buildRowPolynomials(xs, values []field.Element, q int) ([]poly.Polynomial, error) {
	rowPolys := make([]poly.Polynomial, q)
	errs := make([]error, q)

	workers := runtime.NumCPU()
	if workers > q {
		workers = q
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	indices := make(chan int, q)
	for i := 0; i < q; i++ {
		indices <- i
	}
	close(indices)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				xsRow := []field.Element{xs[i], xs[i+q], xs[i+2*q], xs[i+3*q]}
				ysRow := []field.Element{values[i], values[i+q], values[i+2*q], values[i+3*q]}
				p, err := poly.LagrangeInterpolate(xsRow, ysRow)
				if err != nil {
					errs[i] = fmt.Errorf("fri: row interpolation at index %d: %w", i, err)
					continue
				}
				rowPolys[i] = p
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return rowPolys, nil
}
