// Command yachtctl is a flag-light diagnostic harness for exercising a
// built expected-score table from the command line, without starting
// an HTTP server.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/yourusername/yachtcore/internal/dptable"
	"github.com/yourusername/yachtcore/pkg/yacht"
)

const (
	checkpointExpected  = 190.1587
	checkpointTolerance = 0.01
)

func main() {
	tablePath := flag.String("table", "data/dp_table.bin", "Path to the expected-score DP table")
	flag.Parse()

	fmt.Println("=== yachtctl smoke test ===")
	fmt.Println()

	fmt.Printf("1. Loading table from %s...\n", *tablePath)
	eng, err := yacht.NewEngine(yacht.EngineOptions{TablePath: *tablePath})
	if err != nil {
		fmt.Printf("   FAIL: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("   OK")
	fmt.Println()

	fmt.Println("2. Expected score at game start (upper_sum=0, used_mask=0)...")
	start := yacht.PlayerState{UpperSum: 0, UsedMask: 0}
	e0 := eng.ExpectedScoreFromState(start)
	fmt.Printf("   E[start] = %.4f\n", e0)
	if diff := math.Abs(float64(e0) - checkpointExpected); diff > checkpointTolerance {
		fmt.Printf("   FAIL: checkpoint mismatch, want %.4f +/- %.2f, got %.4f\n", checkpointExpected, checkpointTolerance, e0)
		os.Exit(1)
	}
	fmt.Printf("   OK: within %.2f of checkpoint %.4f\n", checkpointTolerance, checkpointExpected)
	fmt.Println()

	fmt.Println("3. Recommending a hold for [1 1 4 5 6], 2 rerolls left...")
	hold, value, err := eng.RecommendHold(start, [5]int{1, 1, 4, 5, 6}, [5]bool{}, 2)
	if err != nil {
		fmt.Printf("   FAIL: %v\n", err)
	} else {
		fmt.Printf("   Hold: %v, value=%.4f\n", hold, value)
	}
	fmt.Println()

	fmt.Println("4. Recommending a category for five sixes, out of rerolls...")
	cat, sc, catValue, err := eng.RecommendCategory(start, [5]int{6, 6, 6, 6, 6}, 0)
	if err != nil {
		fmt.Printf("   FAIL: %v\n", err)
	} else {
		fmt.Printf("   Category: %s, score=%d, value=%.4f\n", cat, sc, catValue)
	}
	fmt.Println()

	fmt.Println("5. Ranking top 3 categories for [6 6 6 6 6] at current_total=100...")
	results, err := eng.TopKCategories(start, [5]int{6, 6, 6, 6, 6}, 0, 100, 3)
	if err != nil {
		fmt.Printf("   FAIL: %v\n", err)
	} else {
		for i, r := range results {
			fmt.Printf("   %d. %-16s score=%-3d value=%.4f total=%.4f\n",
				i+1, r.Category, r.Score, r.Value, r.ExpectedFinalTotal)
		}
	}
	fmt.Println()

	fmt.Println("6. Probing a state with every category used...")
	terminal := yacht.PlayerState{UpperSum: 63, UsedMask: dptable.AllUsedMask}
	_, _, _, err = eng.RecommendCategory(terminal, [5]int{1, 2, 3, 4, 5}, 0)
	if err != nil {
		fmt.Printf("   %v (expected)\n", err)
	} else {
		fmt.Println("   FAIL: expected an all-categories-used error")
	}

	fmt.Println()
	fmt.Println("=== smoke test complete ===")
}
