// SPDX-License-Identifier: MIT
package variational_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/neighborhood"
	"github.com/katalvlaran/ctbn/rates"
	"github.com/katalvlaran/ctbn/variational"
)

var sinkBound float64

func BenchmarkLogConditional(b *testing.B) {
	for _, k := range []int{4, 16} {
		b.Run(fmt.Sprintf("K=%d", k), func(b *testing.B) {
			contacts, err := neighborhood.ChainContacts(k, 1)
			if err != nil {
				b.Fatal(err)
			}
			xs, ys := make([]int, k), make([]int, k)
			for i := range xs {
				xs[i], ys[i] = i%2, (i/2)%2
			}
			nb, err := neighborhood.Build(contacts, neighborhood.WithStates(xs, ys))
			if err != nil {
				b.Fatal(err)
			}
			s, _ := matrix.NewDenseFrom([][]float64{{0, 1}, {1, 0}})
			j, _ := matrix.NewDenseFrom([][]float64{{0.3, -0.3}, {-0.3, 0.3}})
			p := variational.Problem{
				Seed: 1, XS: nb.XS, YS: nb.YS, Neighborhood: nb,
				Params: rates.Params{S: s, J: j, H: []float64{0, 0}}, T: 1,
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				res, err := variational.LogConditional(context.Background(), p, variational.WithMaxSweeps(3))
				if err != nil {
					b.Fatal(err)
				}
				sinkBound = res.LogBound
			}
		})
	}
}
