// Package dump streams entity documents out of JSON dumps and dispatches
// them to registered processors. A dump is a JSON array with one entity
// serialization per line, which lets the reader work line by line without
// holding the whole file.
package dump

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/entitykit/wikibase/internal/wire"
	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/errors"
	"github.com/entitykit/wikibase/pkg/logging"
)

// maxLineBytes bounds a single entity serialization. Large items with many
// statements run to a few megabytes; 64 MiB leaves ample headroom.
const maxLineBytes = 64 << 20

// progressInterval is how many entities pass between progress log lines.
const progressInterval = 10000

// Processor consumes entity documents from a dump.
type Processor interface {
	// Name identifies the processor in logs.
	Name() string

	// ProcessEntity handles one document. Returning an error aborts
	// the run.
	ProcessEntity(doc *entity.Entity) error
}

// Reader streams entity documents from a dump.
type Reader struct {
	scanner *bufio.Scanner
	lines   int64
}

// NewReader wraps r, which must yield uncompressed dump JSON. Callers
// reading a compressed dump wrap r in the matching decompressor first.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next entity document, or io.EOF when the dump is
// exhausted. Array brackets and blank lines are skipped.
func (r *Reader) Next() (*entity.Entity, error) {
	for r.scanner.Scan() {
		r.lines++
		line := bytes.TrimSpace(r.scanner.Bytes())
		line = bytes.TrimSuffix(line, []byte(","))
		if len(line) == 0 || bytes.Equal(line, []byte("[")) || bytes.Equal(line, []byte("]")) {
			continue
		}

		var we wire.Entity
		if err := json.Unmarshal(line, &we); err != nil {
			return nil, errors.WrapParse("json", "dump entity", err)
		}
		return we.ToEntity(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", "entity dump", err)
	}
	return nil, io.EOF
}

// Run streams the dump through every processor in order and returns the
// number of entities processed. The context is checked between entities.
func Run(ctx context.Context, r io.Reader, processors ...Processor) (int64, error) {
	log := logging.Ctx(ctx)
	reader := NewReader(r)

	var count int64
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		doc, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		for _, p := range processors {
			if err := p.ProcessEntity(doc); err != nil {
				return count, fmt.Errorf("processor %s failed on %s: %w", p.Name(), doc.ID, err)
			}
		}

		count++
		if count%progressInterval == 0 {
			log.Info().Int64("entities", count).Msg("dump progress")
		}
	}

	log.Info().Int64("entities", count).Msg("dump complete")
	return count, nil
}
