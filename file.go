package waterfall

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tphakala/go-wav-waterfall/internal/wavheader"
)

// wavInput holds an opened input file positioned at the first sample.
type wavInput struct {
	file   *os.File
	reader *bufio.Reader
	header wavheader.Header
}

// openWAVInput opens path and validates its header.
func openWAVInput(path string) (*wavInput, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenInput, err)
	}

	reader := bufio.NewReaderSize(inputFile, inputBufferSize)
	header, err := readHeader(reader)
	if err != nil {
		_ = inputFile.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &wavInput{
		file:   inputFile,
		reader: reader,
		header: header,
	}, nil
}

// Close closes the input file.
func (w *wavInput) Close() error {
	return w.file.Close()
}

// pngOutput wraps the output file with a write buffer.
type pngOutput struct {
	file   *os.File
	writer *bufio.Writer
}

// createPNGOutput creates the output file.
func createPNGOutput(path string) (*pngOutput, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenOutput, err)
	}

	return &pngOutput{
		file:   outputFile,
		writer: bufio.NewWriterSize(outputFile, outputBufferSize),
	}, nil
}

// Close flushes buffered data and closes the file.
func (p *pngOutput) Close() error {
	if err := p.writer.Flush(); err != nil {
		_ = p.file.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return p.file.Close()
}

// RenderFile renders the WAV file at inPath into a PNG at outPath.
//
// The configuration and the input header are validated before outPath is
// created, so those failures never leave an output file behind. If rendering
// fails after the output was created, the partial file is removed.
func RenderFile(inPath, outPath string, cfg *Config) (stats *Stats, err error) {
	r, err := New(cfg)
	if err != nil {
		return nil, err
	}

	input, err := openWAVInput(inPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	output, err := createPNGOutput(outPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			stats = nil
			_ = os.Remove(outPath)
		}
	}()

	return r.render(input.header, input.reader, output.writer)
}
