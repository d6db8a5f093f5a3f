// Command gen writes a short trace of a weibull cumulative sum chunk to
// random_numbers.txt: one cumulative value per line, drawn from the
// documented default stream.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/notJoon/prrng"
)

func main() {
	chunk := pcg.NewCumsumChunk(1200, pcg.DefaultAlignPolicy())
	chunk.SetWeibull(pcg.WeibullParams{K: 2, Lambda: 5}, 0)
	if err := chunk.DrawChunk(); err != nil {
		fmt.Println("failed to draw chunk:", err)
		return
	}

	file, err := os.Create("random_numbers.txt")
	if err != nil {
		fmt.Println("failed to generate numbers:", err)
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, v := range chunk.Data() {
		if _, err := writer.WriteString(fmt.Sprintf("%g\n", v)); err != nil {
			fmt.Println("write failed:", err)
			return
		}
	}
	if err := writer.Flush(); err != nil {
		fmt.Println("flush failed:", err)
		return
	}

	fmt.Println("FINISHED!")
}
