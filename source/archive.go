package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/model"
	"github.com/klauspost/compress/zip"
)

// maxLineSize bounds a single embeddings line.
const maxLineSize = 64 << 20

type embeddingLine struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

// readEmbeddings reads embeddings.jsonl from the zip archive at path.
func readEmbeddings(path string, c codec.Codec) (map[string][]float32, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if zf.Name != EmbeddingsEntry {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", EmbeddingsEntry, err)
		}
		defer rc.Close()

		return decodeEmbeddings(rc, c)
	}
	return nil, model.NewMissingSourceFileError("archive", path+"!"+EmbeddingsEntry, os.ErrNotExist)
}

func decodeEmbeddings(r io.Reader, c codec.Codec) (map[string][]float32, error) {
	out := make(map[string][]float32)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var e embeddingLine
		if err := c.Unmarshal(b, &e); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", EmbeddingsEntry, line, err)
		}
		if e.ID == "" {
			return nil, &model.InvalidDatasetError{Reason: fmt.Sprintf("%s line %d has no id", EmbeddingsEntry, line)}
		}
		if _, dup := out[e.ID]; dup {
			return nil, &model.InvalidDatasetError{Reason: "duplicate embedding", RouteID: e.ID}
		}
		out[e.ID] = e.Vector
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", EmbeddingsEntry, err)
	}
	return out, nil
}
