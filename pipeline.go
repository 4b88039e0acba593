package ciaconv

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/ciaconv/magic"
)

const batchWorkers = 4

// BatchError collects the files that failed to convert during a batch.
type BatchError struct {
	Failures []error
}

func (e *BatchError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	return fmt.Sprintf("%d files failed to convert, first: %v", len(e.Failures), e.Failures[0])
}

type failures struct {
	mu   sync.Mutex
	errs []error
}

func (f *failures) add(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func sha1File(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

func (c *Converter) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// destination maps a source file under base to the same relative path
// under out with its extension replaced by ext.
func destination(base, out, file, ext string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", err
	}
	return filepath.Join(out, strings.TrimSuffix(rel, filepath.Ext(rel))+ext), nil
}

func (c *Converter) fileWorker(ctx context.Context, in <-chan string, base, out, ext string, catalog *Catalog, failed *failures) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			sig, ok, err := c.Identify(file)
			if err != nil {
				failed.add(err)
				continue
			}
			// Only the binary asset formats are batch converted
			if !ok || sig.Group != magic.GroupMisc {
				continue
			}

			dst, err := destination(base, out, file, ext)
			if err != nil {
				errc <- err
				return
			}

			sha, err := sha1File(file)
			if err != nil {
				failed.add(err)
				continue
			}

			if catalog != nil {
				done, err := catalog.Converted(file, sha, dst)
				if err != nil {
					errc <- err
					return
				}
				if _, statErr := os.Stat(dst); done && statErr == nil {
					c.logger.Printf("Skipping unchanged \"%s\"\n", file)
					continue
				}
			}

			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				errc <- err
				return
			}

			if err := c.Convert(file, dst); err != nil {
				c.logger.Printf("Failed to convert \"%s\": %v\n", file, err)
				failed.add(err)
				continue
			}

			if catalog != nil {
				if err := catalog.Record(file, sha, dst, sig.Extension); err != nil {
					errc <- err
					return
				}
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch converts every .fnt and .rfx file found under path into the same
// relative location under out, with the extension replaced by ext. A file
// that fails to convert does not stop the others; all such failures are
// returned together as a *BatchError. If catalog is not nil it is used to
// skip sources that have not changed since they were last converted.
func (c *Converter) Batch(path, out, ext string, catalog *Catalog) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if out, err = filepath.Abs(out); err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error
	var failed failures

	files, errc, err := c.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < batchWorkers; i++ {
		errc, err := c.fileWorker(ctx, files, dir, out, ext, catalog, &failed)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return err
	}

	if len(failed.errs) > 0 {
		return &BatchError{Failures: failed.errs}
	}
	return nil
}
