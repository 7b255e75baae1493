package ogf

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrWriteConflict is returned when two inputs of one batch resolve
// to the same output path.
var ErrWriteConflict = errors.New("output path conflict")

// DiscoverInputs expands a mix of .ogf files and directories into the
// list of texture files to convert, in input order. Directories are
// scanned one level deep for .ogf entries (extension match is
// case-insensitive), like the retail batch tool.
func DiscoverInputs(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "[ogf] Cannot stat input '%s'", p)
		}
		if !fi.IsDir() {
			files = append(files, p)
			continue
		}

		dirents, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "[ogf] Cannot list input directory '%s'", p)
		}
		for _, de := range dirents {
			if de.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(de.Name()), ".ogf") {
				files = append(files, filepath.Join(p, de.Name()))
			}
		}
	}
	return files, nil
}

// OutputName names a converted texture after its file stem and base
// level dimensions, matching the retail tool's layout.
func OutputName(inPath string, t *Texture) string {
	stem := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return fmt.Sprintf("%s_%d_%d.png", stem, t.Width, t.Height)
}

// ConvertAll decodes every input texture and writes its base level as
// PNG under outDir, up to workers files in parallel. A file that
// fails to decode is reported and skipped; the batch continues.
// Returns the converted count and the inputs that failed. Two inputs
// resolving to the same output path are a write conflict: the first
// one wins, the later one fails rather than racing it.
func ConvertAll(inputs []string, outDir string, workers int) (int, []string) {
	if workers <= 0 {
		workers = 4
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Printf("[ogf] Cannot create output directory '%s': %v", outDir, err)
		return 0, inputs
	}

	var mu sync.Mutex
	claimed := make(map[string]string) // output path -> input that claimed it
	converted := 0
	var failed []string

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for _, in := range inputs {
		in := in
		g.Go(func() error {
			if err := convertOne(in, outDir, claimed, &mu); err != nil {
				log.Printf("[ogf] Skipping '%s': %v", in, err)
				mu.Lock()
				failed = append(failed, in)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			converted++
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return converted, failed
}

func convertOne(inPath, outDir string, claimed map[string]string, mu *sync.Mutex) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return errors.Wrapf(err, "read")
	}

	t, err := DecodeBytes(data)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outDir, OutputName(inPath, t))
	mu.Lock()
	if other, ok := claimed[outPath]; ok {
		mu.Unlock()
		return errors.Wrapf(ErrWriteConflict, "'%s' already written from '%s'", outPath, other)
	}
	claimed[outPath] = inPath
	mu.Unlock()

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "create '%s'", outPath)
	}
	if err := png.Encode(out, t.Base()); err != nil {
		out.Close()
		os.Remove(outPath)
		return errors.Wrapf(err, "encode '%s'", outPath)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "close '%s'", outPath)
	}

	log.Printf("[ogf] %s: %s %dx%d, %d mip levels -> '%s'", inPath, t.Format, t.Width, t.Height, len(t.Levels), outPath)
	return nil
}
