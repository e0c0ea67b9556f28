package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// EncodeWAV serializes a buffer as a 16-bit mono PCM WAV file. Samples
// outside [-1, 1] are clipped.
func EncodeWAV(buf Buffer) ([]byte, error) {
	if buf.Rate <= 0 {
		return nil, fmt.Errorf("encode wav: invalid sample rate %d", buf.Rate)
	}
	dataSize := len(buf.Samples) * 2
	out := bytes.NewBuffer(make([]byte, 0, 44+dataSize))
	if err := writeWAVHeader(out, buf.Rate, dataSize); err != nil {
		return nil, err
	}
	pcm := make([]byte, dataSize)
	for i, s := range buf.Samples {
		v := float64(s)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	if _, err := out.Write(pcm); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// writeWAVHeader writes a minimal 44-byte WAV header for 16-bit mono PCM.
func writeWAVHeader(w io.Writer, rate, dataSize int) error {
	var header bytes.Buffer
	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, uint32(36+dataSize)) //nolint:errcheck
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	binary.Write(&header, binary.LittleEndian, uint32(16))          //nolint:errcheck
	binary.Write(&header, binary.LittleEndian, uint16(wavFormatPCM)) //nolint:errcheck
	binary.Write(&header, binary.LittleEndian, uint16(1))           //nolint:errcheck
	binary.Write(&header, binary.LittleEndian, uint32(rate))        //nolint:errcheck
	binary.Write(&header, binary.LittleEndian, uint32(rate*2))      //nolint:errcheck
	binary.Write(&header, binary.LittleEndian, uint16(2))           //nolint:errcheck
	binary.Write(&header, binary.LittleEndian, uint16(16))          //nolint:errcheck
	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, uint32(dataSize)) //nolint:errcheck
	_, err := w.Write(header.Bytes())
	return err
}

// DecodeWAV parses a mono WAV payload into a buffer. 16-bit PCM and 32-bit
// float encodings are accepted; everything else is rejected so the caller
// can surface a clear setup error.
func DecodeWAV(data []byte) (Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Buffer{}, fmt.Errorf("decode wav: not a RIFF/WAVE payload")
	}

	var (
		format   uint16
		channels uint16
		rate     uint32
		bits     uint16
		pcm      []byte
		sawFmt   bool
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Buffer{}, fmt.Errorf("decode wav: truncated fmt chunk")
			}
			format = binary.LittleEndian.Uint16(data[body:])
			channels = binary.LittleEndian.Uint16(data[body+2:])
			rate = binary.LittleEndian.Uint32(data[body+4:])
			bits = binary.LittleEndian.Uint16(data[body+14:])
			sawFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
		}
		// Chunks are word-aligned.
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	if !sawFmt || pcm == nil {
		return Buffer{}, fmt.Errorf("decode wav: missing fmt or data chunk")
	}
	if channels != 1 {
		return Buffer{}, fmt.Errorf("decode wav: %d channels, want mono", channels)
	}

	switch {
	case format == wavFormatPCM && bits == 16:
		samples := make([]float32, len(pcm)/2)
		for i := range samples {
			samples[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / math.MaxInt16
		}
		return Buffer{Samples: samples, Rate: int(rate)}, nil
	case format == wavFormatFloat && bits == 32:
		samples := make([]float32, len(pcm)/4)
		for i := range samples {
			samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(pcm[i*4:]))
		}
		return Buffer{Samples: samples, Rate: int(rate)}, nil
	default:
		return Buffer{}, fmt.Errorf("decode wav: unsupported encoding (format=%d bits=%d)", format, bits)
	}
}

// ReadWAVFile loads a mono WAV file from disk.
func ReadWAVFile(path string) (Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("read wav: %w", err)
	}
	return DecodeWAV(data)
}
