// Package waterfall renders stereo 16-bit WAV audio as a waterfall
// spectrogram PNG.
//
// Each image row is the spectrum of one block of width consecutive frames.
// The left channel is taken as the real part and the right channel as the
// imaginary part of a complex signal, so the image shows negative
// frequencies to the left of DC and positive frequencies to the right, with
// DC in column width/2. Rows are produced top to bottom in time order.
//
// # Pipeline
//
// For every row the renderer:
//
//  1. reads width interleaved frames and scales them to [-1, 1)
//  2. applies a three-term cosine window (coefficients 0.44959, 0.49364,
//     0.05677)
//  3. runs an unnormalized forward DFT of length width
//  4. rotates the spectrum so DC sits at index width/2
//  5. converts each bin to dB as -20*log10(power/width)
//  6. maps dB onto a 256-entry color table using the offset and range
//
// Rows are compressed and written as soon as they are computed. Memory use
// depends on width only, never on height or input length.
//
// # Color scale
//
// Color index = clamp(int((dB - OffsetDB) / RangeDB * 255), 0, 255), where
// index 0 is black and index 255 is white. Because stronger bins give
// smaller dB values, a negative RangeDB draws strong signals bright and
// silence black: OffsetDB is the level at the black end and OffsetDB+RangeDB
// the level at the white end. A positive RangeDB inverts the scale.
//
// # Usage
//
//	cfg := &waterfall.Config{
//	    Width:    1024,
//	    Height:   600,
//	    OffsetDB: 100,
//	    RangeDB:  -100,
//	    Logger:   log.Default(),
//	}
//	stats, err := waterfall.RenderFile("in.wav", "out.png", cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d rows, %d padded\n", stats.Height, stats.PaddedRows)
//
// When the input runs out before Height rows, the remaining frames are
// treated as silence and counted in [Stats.PaddedRows]. Set [Config.Strict]
// to fail with [ErrShortInput] instead.
package waterfall
