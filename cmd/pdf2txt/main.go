// Package main converts PDF documents into text files ready for indexing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/app"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/pdftext"
)

var (
	twoColumnPatterns []string
	noisePatterns     []string
	logLevel          string
)

var rootCmd = &cobra.Command{
	Use:   "pdf2txt [input folder] [output folder]",
	Short: "Convert PDF documents to text files",
	Long: `Extracts text from every PDF in the input folder and writes one .txt
file per PDF into the output folder.

Files whose names match a --two-column pattern are read column by column
so left and right column text is not interleaved. Lines matching a
--noise pattern (running headers, page numbers) are dropped.`,
	Args: cobra.ExactArgs(2),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringSliceVar(&twoColumnPatterns, "two-column", nil,
		"filename patterns with a two-column layout (e.g. 'A-Z','Guide')")
	rootCmd.Flags().StringSliceVar(&noisePatterns, "noise", nil,
		"substrings whose lines are removed from the output")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := app.NewLogger(logLevel)

	converter := pdftext.NewConverter(pdftext.Options{
		TwoColumnPatterns: twoColumnPatterns,
		NoisePatterns:     noisePatterns,
	}, logger)

	n, err := converter.ConvertDir(args[0], args[1])
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Printf("No PDF files found in %s\n", args[0])
		return nil
	}
	fmt.Printf("Converted %d PDF file(s) into %s\n", n, args[1])
	return nil
}
