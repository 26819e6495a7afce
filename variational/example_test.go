// SPDX-License-Identifier: MIT
package variational_test

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/neighborhood"
	"github.com/katalvlaran/ctbn/rates"
	"github.com/katalvlaran/ctbn/variational"
)

// Two uncoupled binary chains: the bound is exact.
func ExampleLogConditional() {
	contacts, _ := matrix.NewDense(2, 2)
	nb, _ := neighborhood.Build(contacts, neighborhood.WithStates([]int{0, 0}, []int{1, 1}))
	s, _ := matrix.NewDenseFrom([][]float64{{0, 1}, {1, 0}})
	j, _ := matrix.NewDense(2, 2)

	res, err := variational.LogConditional(context.Background(), variational.Problem{
		Seed:         1,
		XS:           nb.XS,
		YS:           nb.YS,
		Neighborhood: nb,
		Params:       rates.Params{S: s, J: j, H: []float64{0, 0}},
		T:            1,
	}, variational.WithTolerances(1e-8, 1e-10))
	if err != nil {
		fmt.Println(err)
		return
	}
	want := 2 * math.Log((1-math.Exp(-2))/2)
	fmt.Println(res.Status, math.Abs(res.LogBound-want) < 1e-3)
	// Output: converged true
}
