package cmd

import (
	"io"
	"os"

	"github.com/TEENet-io/cardano-utxo/binding"
)

// fileExists checks if a file exists and is readable
func FileExists(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()
	return true
}

// readRequest reads a request from path, or from stdin when path is "" or "-".
// format overrides the format guessed from the file extension.
func readRequest(path string, format string, stdin io.Reader) (*binding.SelectRequest, error) {
	if path == "" || path == "-" {
		if format == "" {
			format = binding.FORMAT_JSON
		}
		return binding.DecodeRequest(stdin, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == "" {
		format = binding.FormatFromPath(path)
	}
	return binding.DecodeRequest(f, format)
}
