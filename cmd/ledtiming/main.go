// Command ledtiming prints the WS2812B busy-wait cycle table for a core
// clock, the table the LED encoder runs from. Use it when retargeting a
// board with a different clock instead of recomputing counts by hand.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"beacon/ws2812"
)

func main() {
	hz := flag.Uint64("hz", 125_000_000, "Core clock in hertz.")
	flag.Parse()

	if *hz == 0 || *hz > math.MaxUint32 {
		fmt.Fprintf(os.Stderr, "ledtiming: clock must be between 1 and %d Hz\n", uint32(math.MaxUint32))
		os.Exit(2)
	}

	t := ws2812.TimingsForClock(uint32(*hz))
	fmt.Printf("clock %d Hz\n", *hz)
	fmt.Printf("%-8s %6s %8s\n", "phase", "ns", "cycles")
	fmt.Printf("%-8s %6d %8d\n", "T0 high", ws2812.T0HighNanos, t.T0High)
	fmt.Printf("%-8s %6d %8d\n", "T1 high", ws2812.T1HighNanos, t.T1High)
	fmt.Printf("%-8s %6d %8d\n", "T0 low", ws2812.T0LowNanos, t.T0Low)
	fmt.Printf("%-8s %6d %8d\n", "T1 low", ws2812.T1LowNanos, t.T1Low)
	fmt.Printf("%-8s %6d %8d\n", "reset", ws2812.ResetNanos, t.Reset)
}
